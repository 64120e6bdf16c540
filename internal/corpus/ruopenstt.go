package corpus

import (
	"log/slog"

	"loom/internal/transcript"
)

func init() {
	register(Definition{
		Name:        "ru_open_stt",
		Description: "Russian Open Speech To Text, public_youtube700 subset",
		Language:    "Russian",
		Layouts: func() []Layout {
			// The validation split ships wav, the training split opus.
			return []Layout{
				{
					Part:           "val",
					AudioDir:       "audio/val",
					AudioGlob:      "*.wav",
					TranscriptDir:  "text/val",
					TranscriptGlob: "*.txt",
				},
				{
					Part:           "train",
					AudioDir:       "audio/train",
					AudioGlob:      "*.opus",
					TranscriptDir:  "text/train",
					TranscriptGlob: "*.txt",
				},
			}
		},
		NewParser: func(opts Options, _ string, logger *slog.Logger) transcript.Parser {
			return transcript.WholeFileParser{
				Normalize: opts.Normalize,
				Logger:    logger,
			}
		},
		Expand: func(rec transcript.Record, _ Options) []string {
			return []string{rec.RecordingKey}
		},
	})
}
