package manifest

import (
	"fmt"
	"sort"
)

// RecordingSet is an id-keyed collection of recordings. Insertion order is
// irrelevant; iteration is always sorted by id.
type RecordingSet struct {
	byID map[string]Recording
}

// NewRecordingSet returns an empty recording collection.
func NewRecordingSet() *RecordingSet {
	return &RecordingSet{byID: make(map[string]Recording)}
}

// Add inserts a recording. Duplicate ids are an error so two independently
// discovered files can never silently shadow each other.
func (s *RecordingSet) Add(rec Recording) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if _, ok := s.byID[rec.ID]; ok {
		return fmt.Errorf("duplicate recording id %s", rec.ID)
	}
	s.byID[rec.ID] = rec
	return nil
}

// Get looks up a recording by id.
func (s *RecordingSet) Get(id string) (Recording, bool) {
	rec, ok := s.byID[id]
	return rec, ok
}

// Len reports the number of recordings.
func (s *RecordingSet) Len() int {
	return len(s.byID)
}

// IDs returns all recording ids in sorted order.
func (s *RecordingSet) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the recordings sorted by id.
func (s *RecordingSet) All() []Recording {
	out := make([]Recording, 0, len(s.byID))
	for _, id := range s.IDs() {
		out = append(out, s.byID[id])
	}
	return out
}

// Filter returns a derived sub-collection holding the recordings the
// predicate accepts.
func (s *RecordingSet) Filter(pred func(Recording) bool) *RecordingSet {
	out := NewRecordingSet()
	for _, rec := range s.byID {
		if pred(rec) {
			out.byID[rec.ID] = rec
		}
	}
	return out
}

// SupervisionSet is an id-keyed collection of supervision segments.
type SupervisionSet struct {
	byID map[string]SupervisionSegment
}

// NewSupervisionSet returns an empty supervision collection.
func NewSupervisionSet() *SupervisionSet {
	return &SupervisionSet{byID: make(map[string]SupervisionSegment)}
}

// Add inserts a segment, rejecting duplicate ids.
func (s *SupervisionSet) Add(seg SupervisionSegment) error {
	if err := seg.Validate(); err != nil {
		return err
	}
	if _, ok := s.byID[seg.ID]; ok {
		return fmt.Errorf("duplicate supervision id %s", seg.ID)
	}
	s.byID[seg.ID] = seg
	return nil
}

// Get looks up a segment by id.
func (s *SupervisionSet) Get(id string) (SupervisionSegment, bool) {
	seg, ok := s.byID[id]
	return seg, ok
}

// Len reports the number of segments.
func (s *SupervisionSet) Len() int {
	return len(s.byID)
}

// IDs returns all segment ids in sorted order.
func (s *SupervisionSet) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns the segments sorted by id.
func (s *SupervisionSet) All() []SupervisionSegment {
	out := make([]SupervisionSegment, 0, len(s.byID))
	for _, id := range s.IDs() {
		out = append(out, s.byID[id])
	}
	return out
}

// Filter returns a derived sub-collection holding the segments the predicate
// accepts. Typical predicates select by recording-id prefix.
func (s *SupervisionSet) Filter(pred func(SupervisionSegment) bool) *SupervisionSet {
	out := NewSupervisionSet()
	for _, seg := range s.byID {
		if pred(seg) {
			out.byID[seg.ID] = seg
		}
	}
	return out
}
