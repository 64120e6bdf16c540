package corpus

import (
	"fmt"
	"sort"
)

// Scheme maps named dataset splits to the session keys they contain. Schemes
// are static configuration, never derived at runtime.
type Scheme map[string][]string

// Validate rejects schemes where a session key appears in more than one
// split: partitions must be a disjoint cover.
func (s Scheme) Validate() error {
	seen := make(map[string]string)
	for _, split := range s.Splits() {
		for _, session := range s[split] {
			if other, ok := seen[session]; ok {
				return fmt.Errorf("session %s assigned to both %s and %s splits", session, other, split)
			}
			seen[session] = split
		}
	}
	return nil
}

// SplitFor returns the split the session key belongs to.
func (s Scheme) SplitFor(session string) (string, bool) {
	for split, sessions := range s {
		for _, candidate := range sessions {
			if candidate == session {
				return split, true
			}
		}
	}
	return "", false
}

// Splits returns the split names in sorted order for deterministic
// iteration.
func (s Scheme) Splits() []string {
	splits := make([]string, 0, len(s))
	for split := range s {
		splits = append(splits, split)
	}
	sort.Strings(splits)
	return splits
}
