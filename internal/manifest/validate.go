package manifest

import (
	"fmt"
	"strings"
)

// Validate checks a recording/supervision pair for cross-collection
// consistency. It collects every violation instead of stopping at the first
// one: a training pipeline consuming an inconsistent manifest fails far later
// and less diagnosably, so the full list must surface here. The returned
// error wraps ErrManifestIntegrity.
func Validate(recordings *RecordingSet, supervisions *SupervisionSet) error {
	var problems []string

	if recordings == nil || recordings.Len() == 0 {
		problems = append(problems, "recording collection is empty")
	}
	if supervisions == nil || supervisions.Len() == 0 {
		problems = append(problems, "supervision collection is empty")
	}

	if recordings != nil && supervisions != nil {
		for _, seg := range supervisions.All() {
			if err := seg.Validate(); err != nil {
				problems = append(problems, err.Error())
				continue
			}
			rec, ok := recordings.Get(seg.RecordingID)
			if !ok {
				problems = append(problems, fmt.Sprintf("supervision %s references unknown recording %s", seg.ID, seg.RecordingID))
				continue
			}
			if seg.End() > rec.Duration {
				problems = append(problems, fmt.Sprintf(
					"supervision %s ends at %.3f past recording %s duration %.3f",
					seg.ID, seg.End(), rec.ID, rec.Duration))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d problem(s): %s", ErrManifestIntegrity, len(problems), strings.Join(problems, "; "))
}
