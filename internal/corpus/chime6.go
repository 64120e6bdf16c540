package corpus

import (
	"fmt"
	"log/slog"
	"strings"

	"loom/internal/transcript"
)

// chimeArrayChannels lists the per-array microphone channels every array
// recording fans out to.
var chimeArrayChannels = []string{"CH1", "CH2", "CH3", "CH4"}

// chimeSessionArrays restricts sessions with known-broken array devices to
// the arrays that actually produced usable audio.
var chimeSessionArrays = map[string][]string{
	"S01": {"U01", "U02", "U04", "U05", "U06"},
	"S05": {"U01", "U02", "U05", "U06"},
	"S09": {"U01", "U02", "U03", "U04", "U06"},
	"S22": {"U01", "U02", "U04", "U05", "U06"},
}

// chimeExcludedSessions have utterance/recording duration mismatches across
// the released transcripts and are dropped entirely.
var chimeExcludedSessions = map[string]bool{"S12": true}

func init() {
	register(Definition{
		Name:        "chime6",
		Description: "CHiME-6 dinner-party corpus (JSON utterance transcripts)",
		Language:    "English",
		Mics:        []string{"worn", "ref", "u01", "u02", "u03", "u04", "u05", "u06"},
		DefaultMic:  "worn",
		Layouts: func() []Layout {
			layouts := make([]Layout, 0, 2)
			for _, part := range []string{"dev", "train"} {
				layouts = append(layouts, Layout{
					Part:           part,
					AudioDir:       "audio/" + part,
					AudioGlob:      "*.wav",
					TranscriptDir:  "transcriptions/" + part,
					TranscriptGlob: "*.json",
				})
			}
			return layouts
		},
		NewParser: func(opts Options, _ string, logger *slog.Logger) transcript.Parser {
			return transcript.JSONUtteranceParser{Normalize: opts.Normalize, Logger: logger}
		},
		Expand: expandChime,
	})
}

// expandChime maps (session, speaker, mic selection) to candidate recording
// ids. Worn (binaural) microphones bind directly to the speaker's own
// recording; reference and array selections fan out to the four channels of
// the chosen array.
func expandChime(rec transcript.Record, opts Options) []string {
	session := rec.RecordingKey
	if chimeExcludedSessions[session] {
		return nil
	}

	mic := strings.ToLower(opts.Mic)
	if mic == "" || mic == "worn" {
		return []string{session + "_" + rec.Speaker}
	}

	array := strings.ToUpper(mic)
	if mic == "ref" {
		array = rec.Tags["ref"]
		if array == "" {
			return nil
		}
	}
	if allowed, restricted := chimeSessionArrays[session]; restricted && !contains(allowed, array) {
		return nil
	}

	candidates := make([]string, 0, len(chimeArrayChannels))
	for _, channel := range chimeArrayChannels {
		candidates = append(candidates, fmt.Sprintf("%s_%s.%s", session, array, channel))
	}
	return candidates
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
