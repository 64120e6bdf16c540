package assemble

// PartitionOutcome reports what one dataset split produced.
type PartitionOutcome struct {
	Part         string
	Recordings   int
	Supervisions int

	// Skip counters, in pipeline order: unreadable audio files, malformed
	// transcript records, policy-excluded records, reconciliation drops.
	UnreadableAudio int
	ParseSkipped    int
	ParseExcluded   int
	Orphaned        int
	BadTimestamps   int
	Overruns        int
	// Unassigned counts recordings whose session key is absent from the
	// selected partition scheme.
	Unassigned int

	// Files lists the manifest paths written for this partition.
	Files []string
	// Err is non-nil when the partition failed integrity validation or
	// could not be written. Other partitions are unaffected.
	Err error
}

// Skips returns the total number of items dropped while building the
// partition.
func (p PartitionOutcome) Skips() int {
	return p.UnreadableAudio + p.ParseSkipped + p.ParseExcluded +
		p.Orphaned + p.BadTimestamps + p.Overruns + p.Unassigned
}

// Summary is the result of one prepare run.
type Summary struct {
	RunID      string
	Corpus     string
	Partitions []PartitionOutcome
}

// Failed returns the names of partitions that did not produce manifests.
func (s *Summary) Failed() []string {
	var failed []string
	for _, p := range s.Partitions {
		if p.Err != nil {
			failed = append(failed, p.Part)
		}
	}
	return failed
}
