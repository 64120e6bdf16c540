package manifest

import (
	"errors"
	"fmt"
)

// AudioSource maps a set of channel indexes to one audio resource.
type AudioSource struct {
	Type     string `json:"type"`
	Channels []int  `json:"channels"`
	Source   string `json:"source"`
}

// Recording is the metadata descriptor for one physical audio file. It never
// holds waveform data. Recordings are immutable once constructed.
type Recording struct {
	ID         string        `json:"id"`
	Sources    []AudioSource `json:"sources"`
	SampleRate int           `json:"sampling_rate"`
	NumSamples int64         `json:"num_samples"`
	Duration   float64       `json:"duration"`
}

// NewRecording constructs a Recording with the duration derived from the
// sample count so the two can never disagree.
func NewRecording(id string, sources []AudioSource, sampleRate int, numSamples int64) (Recording, error) {
	rec := Recording{
		ID:         id,
		Sources:    append([]AudioSource(nil), sources...),
		SampleRate: sampleRate,
		NumSamples: numSamples,
	}
	if sampleRate > 0 {
		rec.Duration = float64(numSamples) / float64(sampleRate)
	}
	if err := rec.Validate(); err != nil {
		return Recording{}, err
	}
	return rec, nil
}

// Validate checks the recording invariants: a non-empty id, at least one
// source, and a strictly positive duration.
func (r Recording) Validate() error {
	if r.ID == "" {
		return errors.New("recording id is empty")
	}
	if len(r.Sources) == 0 {
		return fmt.Errorf("recording %s has no audio sources", r.ID)
	}
	if r.SampleRate <= 0 {
		return fmt.Errorf("recording %s has non-positive sample rate %d", r.ID, r.SampleRate)
	}
	if r.NumSamples <= 0 {
		return fmt.Errorf("recording %s has non-positive sample count %d", r.ID, r.NumSamples)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("recording %s has non-positive duration %f", r.ID, r.Duration)
	}
	return nil
}
