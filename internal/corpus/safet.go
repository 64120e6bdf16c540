package corpus

import (
	"log/slog"
	"strings"

	"loom/internal/fileutil"
	"loom/internal/transcript"
)

// safetEndGuard keeps SAFE-T annotations from overrunning the recording by
// the epsilon present throughout the released transcripts.
const safetEndGuard = 0.1

func init() {
	register(Definition{
		Name:        "safet",
		Description: "SAFE-T speech corpus (LDC2020E10 audio, LDC2020E09 transcripts)",
		Language:    "English",
		Layouts: func() []Layout {
			layouts := make([]Layout, 0, 3)
			for _, part := range []string{"dev", "dev_clean", "train"} {
				// The dev_clean split reuses the dev directories; it differs
				// only in downstream filtering.
				dir := part
				if strings.Contains(part, "dev") {
					dir = "dev"
				}
				layouts = append(layouts, Layout{
					Part:           part,
					AudioDir:       dir + "/audio_dir",
					AudioGlob:      "*.wav",
					TranscriptDir:  dir + "/transcript_dir",
					TranscriptGlob: "*.tsv",
				})
			}
			return layouts
		},
		NewParser: func(opts Options, part string, logger *slog.Logger) transcript.Parser {
			suffix := "_mixed"
			if strings.Contains(part, "dev") {
				suffix = "_dev_mixed"
			}
			return transcript.TSVParser{
				RecordingKey: func(path string) string {
					return fileutil.Stem(path) + suffix
				},
				EndGuard:  safetEndGuard,
				Normalize: opts.Normalize,
				Logger:    logger,
			}
		},
		Expand: func(rec transcript.Record, _ Options) []string {
			return []string{rec.RecordingKey}
		},
	})
}
