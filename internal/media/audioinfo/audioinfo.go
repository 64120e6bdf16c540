package audioinfo

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"loom/internal/manifest"
)

// Info holds header-level metadata for one audio file.
type Info struct {
	SampleRate int
	Channels   int
	NumSamples int64
	Duration   float64
}

// Extractor reads audio metadata from file headers.
type Extractor struct {
	// FFprobeBinary is the executable used for non-WAV containers.
	// Defaults to "ffprobe" when empty.
	FFprobeBinary string
}

// Probe reads metadata for the file at path. Missing, empty, or
// unrecognized files fail with a manifest.ErrUnreadableAudio-tagged error;
// callers skip the file and continue the scan.
func (e Extractor) Probe(ctx context.Context, path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "stat", path, err)
	}
	if stat.Size() == 0 {
		return Info{}, manifest.Wrap(manifest.ErrUnreadableAudio, "audioinfo", "stat", path+": zero-length file", nil)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return probeWave(path)
	default:
		return probeFFprobe(ctx, e.FFprobeBinary, path)
	}
}
