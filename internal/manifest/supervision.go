package manifest

import (
	"errors"
	"fmt"
)

// SupervisionSegment is a labeled time interval within a recording. The
// RecordingID is a lookup key into a RecordingSet, not an owning pointer.
// Segments are immutable once constructed by the reconciler.
type SupervisionSegment struct {
	ID          string  `json:"id"`
	RecordingID string  `json:"recording_id"`
	Start       float64 `json:"start"`
	Duration    float64 `json:"duration"`
	Channel     int     `json:"channel"`
	Language    string  `json:"language,omitempty"`
	Speaker     string  `json:"speaker,omitempty"`
	Gender      string  `json:"gender,omitempty"`
	Text        string  `json:"text,omitempty"`
}

// End returns the segment end offset in seconds.
func (s SupervisionSegment) End() float64 {
	return s.Start + s.Duration
}

// Validate checks segment-local invariants. Invariants that need the
// referenced recording (temporal bounds) live in Validate(recordings, ...).
func (s SupervisionSegment) Validate() error {
	if s.ID == "" {
		return errors.New("supervision id is empty")
	}
	if s.RecordingID == "" {
		return fmt.Errorf("supervision %s has empty recording reference", s.ID)
	}
	if s.Start < 0 {
		return fmt.Errorf("supervision %s has negative start %f", s.ID, s.Start)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("supervision %s has non-positive duration %f", s.ID, s.Duration)
	}
	return nil
}
