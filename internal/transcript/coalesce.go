package transcript

// Coalesce merges adjacent word-level records from the same speaker on the
// same recording/channel into larger segments. Two records merge when the
// gap between the end of one and the start of the next is at most maxPause
// seconds; any larger gap starts a new segment. Input order is preserved.
func Coalesce(records []Record, maxPause float64) []Record {
	if len(records) == 0 {
		return nil
	}

	merged := make([]Record, 0, len(records))
	current := records[0]
	for _, next := range records[1:] {
		sameStream := next.RecordingKey == current.RecordingKey &&
			next.Speaker == current.Speaker &&
			next.Channel == current.Channel
		if sameStream && next.Start-current.End <= maxPause {
			if next.Text != "" {
				if current.Text != "" {
					current.Text += " " + next.Text
				} else {
					current.Text = next.Text
				}
			}
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}
