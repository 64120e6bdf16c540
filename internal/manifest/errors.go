package manifest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadableAudio marks audio files that are missing, empty, or carry
	// an unrecognized header. Callers skip the file and continue the scan.
	ErrUnreadableAudio = errors.New("unreadable audio")
	// ErrMalformedRecord marks transcript lines/records that cannot be
	// parsed. Callers skip the record and continue the resource.
	ErrMalformedRecord = errors.New("malformed transcript record")
	// ErrOrphanedReference marks supervisions referencing unknown recordings.
	ErrOrphanedReference = errors.New("orphaned recording reference")
	// ErrManifestIntegrity marks partition-level validation failures. Fatal
	// for the affected partition; other partitions are still attempted.
	ErrManifestIntegrity = errors.New("manifest integrity")
)

// Wrap builds an error message that includes pipeline context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrMalformedRecord
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
