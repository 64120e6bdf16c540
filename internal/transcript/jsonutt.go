package transcript

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"loom/internal/logging"
	"loom/internal/manifest"
)

// redactedMarker flags utterances whose words were removed for privacy.
const redactedMarker = "[redacted]"

type jsonUtterance struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Words     string `json:"words"`
	Speaker   string `json:"speaker"`
	SessionID string `json:"session_id"`
	Ref       string `json:"ref"`
	Location  string `json:"location"`
}

// JSONUtteranceParser reads CHiME-style transcripts: a JSON array of
// utterance objects with H:MM:SS.ss wall-clock timestamps, a speaker, a
// session id, and a reference-microphone tag.
type JSONUtteranceParser struct {
	Normalize NormalizeConfig
	Logger    *slog.Logger
}

// Parse decodes the utterance array. Utterances with unparseable timestamps
// are skipped with a warning; redacted utterances are excluded by policy.
func (p JSONUtteranceParser) Parse(path string) (Result, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("open transcript: %w", err)
	}

	var utterances []jsonUtterance
	if err := json.Unmarshal(payload, &utterances); err != nil {
		return Result{}, manifest.Wrap(manifest.ErrMalformedRecord, "transcript", "decode", path, err)
	}

	logger := p.logger()
	var result Result
	for i, utt := range utterances {
		if strings.Contains(utt.Words, redactedMarker) {
			result.Excluded++
			continue
		}
		if p.Normalize.ExcludedSpeaker(utt.Speaker) {
			result.Excluded++
			continue
		}
		start, err := ParseWallClock(utt.StartTime)
		if err != nil {
			logger.Warn("skipping malformed utterance",
				logging.String("path", path), logging.Int("index", i), logging.Error(err))
			result.Skipped++
			continue
		}
		end, err := ParseWallClock(utt.EndTime)
		if err != nil {
			logger.Warn("skipping malformed utterance",
				logging.String("path", path), logging.Int("index", i), logging.Error(err))
			result.Skipped++
			continue
		}
		if utt.SessionID == "" {
			logger.Warn("skipping utterance without session id",
				logging.String("path", path), logging.Int("index", i))
			result.Skipped++
			continue
		}

		text := p.Normalize.Text(utt.Words)
		if text == "" {
			result.Excluded++
			continue
		}

		tags := map[string]string{}
		if utt.Ref != "" {
			tags["ref"] = utt.Ref
		}
		if utt.Location != "" {
			tags["location"] = utt.Location
		}
		result.Records = append(result.Records, Record{
			RecordingKey: utt.SessionID,
			Speaker:      utt.Speaker,
			Start:        start,
			End:          end,
			Text:         text,
			Tags:         tags,
		})
	}
	return result, nil
}

func (p JSONUtteranceParser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.NewNop()
}
