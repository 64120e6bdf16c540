package reconcile

import (
	"fmt"
	"log/slog"

	"loom/internal/logging"
	"loom/internal/manifest"
	"loom/internal/transcript"
)

// Report aggregates the skip/keep decisions of one reconciliation pass.
type Report struct {
	// Emitted counts supervision segments constructed.
	Emitted int
	// Orphaned counts candidates whose recording id is unknown.
	Orphaned int
	// BadTimestamps counts records with a negative start or end <= start.
	BadTimestamps int
	// Overruns counts records whose end lies past the recording duration.
	Overruns int
}

// Skips returns the total number of dropped candidate segments.
func (r Report) Skips() int {
	return r.Orphaned + r.BadTimestamps + r.Overruns
}

// Reconciler turns raw transcript records into supervision segments bound to
// recordings from one partition. Segment ids are assigned from a sequence
// counter, so records must arrive in a stable order (sorted transcript
// paths, source line order) for ids to be reproducible across runs.
type Reconciler struct {
	recordings *manifest.RecordingSet
	language   string
	logger     *slog.Logger
	report     Report
	seq        int
}

// New constructs a reconciler over the known recordings of one corpus scan.
func New(recordings *manifest.RecordingSet, language string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{recordings: recordings, language: language, logger: logger}
}

// Reconcile validates one raw record against each candidate recording id and
// returns the segments that survive. Every skip is logged and counted;
// nothing here aborts the caller's loop.
func (r *Reconciler) Reconcile(raw transcript.Record, candidates []string) []manifest.SupervisionSegment {
	var out []manifest.SupervisionSegment
	for _, recordingID := range candidates {
		rec, ok := r.recordings.Get(recordingID)
		if !ok {
			r.report.Orphaned++
			r.logger.Warn("skipping segment for unknown recording",
				logging.String(logging.FieldRecordingID, recordingID),
				logging.String("speaker", raw.Speaker),
				logging.Error(manifest.Wrap(manifest.ErrOrphanedReference, "reconcile", "bind segment", recordingID, nil)))
			continue
		}

		start, end := raw.Start, raw.End
		if raw.WholeFile {
			start, end = 0, rec.Duration
		}
		if start < 0 || end <= start {
			// Known data-quality issue in several corpora (end before
			// start), not a caller error.
			r.report.BadTimestamps++
			r.logger.Warn("skipping segment with non-positive interval",
				logging.String(logging.FieldRecordingID, recordingID),
				logging.Float64("start", start),
				logging.Float64("end", end))
			continue
		}
		if end > rec.Duration {
			// Dropped rather than clipped so the annotation's original
			// bounds stay visible in the logs for debugging.
			r.report.Overruns++
			r.logger.Warn("skipping segment past recording end",
				logging.String(logging.FieldRecordingID, recordingID),
				logging.Float64("start", start),
				logging.Float64("end", end),
				logging.Float64("recording_duration", rec.Duration))
			continue
		}

		r.seq++
		r.report.Emitted++
		out = append(out, manifest.SupervisionSegment{
			ID:          r.segmentID(raw),
			RecordingID: recordingID,
			Start:       start,
			Duration:    end - start,
			Channel:     raw.Channel,
			Language:    r.language,
			Speaker:     raw.Speaker,
			Gender:      raw.Gender,
			Text:        raw.Text,
		})
	}
	return out
}

// Report returns the accumulated skip/keep counters.
func (r *Reconciler) Report() Report {
	return r.report
}

// segmentID composes a deterministic id from speaker, session key, and the
// zero-padded sequence counter; the padding keeps lexical and emission order
// aligned.
func (r *Reconciler) segmentID(raw transcript.Record) string {
	if raw.Speaker != "" {
		return fmt.Sprintf("%s_%s_%06d", raw.Speaker, raw.RecordingKey, r.seq)
	}
	return fmt.Sprintf("%s_%06d", raw.RecordingKey, r.seq)
}
