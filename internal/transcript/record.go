package transcript

// Record is one raw parsed annotation, not yet bound to a recording. Start
// and End are offsets in seconds. WholeFile marks records that span an entire
// recording; the reconciler fills in the real duration for those.
type Record struct {
	// RecordingKey identifies the recording(s) this record belongs to. Its
	// shape is corpus-specific: a direct recording id, or a session key the
	// reconciler expands into several candidate recording ids.
	RecordingKey string
	Speaker      string
	Gender       string
	Start        float64
	End          float64
	Channel      int
	Text         string
	Tags         map[string]string
	WholeFile    bool
}

// Result is the outcome of parsing one transcript resource.
type Result struct {
	Records []Record
	// Skipped counts malformed lines/records dropped with a warning.
	Skipped int
	// Excluded counts records dropped by policy (excluded speaker labels,
	// redaction markers, empty normalized text).
	Excluded int
}

// Parser produces raw records from one transcript resource. Parse is
// restartable: calling it again re-reads the resource from the start.
type Parser interface {
	Parse(path string) (Result, error)
}
