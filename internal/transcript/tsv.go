package transcript

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"loom/internal/logging"
	"loom/internal/manifest"
)

// TSVParser reads per-line transcripts of the form
//
//	<start> <end> <speaker>: <text...>
//
// with plain float-second timestamps. Used by SAFE-T style corpora.
type TSVParser struct {
	// RecordingKey maps a transcript path to the recording key its lines
	// belong to. Required.
	RecordingKey func(path string) string
	// EndGuard is subtracted from each computed end time to keep
	// annotations from overrunning the recording by an epsilon.
	EndGuard  float64
	Normalize NormalizeConfig
	Logger    *slog.Logger
}

// Parse reads every line of the resource. Malformed lines are skipped with a
// warning; a single corrupt line never voids the rest of the file.
func (p TSVParser) Parse(path string) (Result, error) {
	if p.RecordingKey == nil {
		return Result{}, fmt.Errorf("tsv parser: RecordingKey is required")
	}
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	logger := p.logger()
	key := p.RecordingKey(path)

	var result Result
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			logger.Warn("skipping malformed transcript line",
				logging.String("path", path), logging.Int("line", lineNo),
				logging.String("reason", "fewer than 4 fields"))
			result.Skipped++
			continue
		}
		start, err := ParseSeconds(fields[0])
		if err != nil {
			logger.Warn("skipping malformed transcript line",
				logging.String("path", path), logging.Int("line", lineNo), logging.Error(err))
			result.Skipped++
			continue
		}
		end, err := ParseSeconds(fields[1])
		if err != nil {
			logger.Warn("skipping malformed transcript line",
				logging.String("path", path), logging.Int("line", lineNo), logging.Error(err))
			result.Skipped++
			continue
		}

		speaker := strings.TrimSuffix(fields[2], ":")
		if p.Normalize.ExcludedSpeaker(speaker) {
			result.Excluded++
			continue
		}

		text := p.Normalize.Text(strings.Join(fields[3:], " "))
		if text == "" {
			result.Excluded++
			continue
		}

		result.Records = append(result.Records, Record{
			RecordingKey: key,
			Speaker:      speaker,
			Start:        start,
			End:          end - p.EndGuard,
			Text:         text,
		})
	}
	if err := scanner.Err(); err != nil {
		return Result{}, manifest.Wrap(manifest.ErrMalformedRecord, "transcript", "read", path, err)
	}
	return result, nil
}

func (p TSVParser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.NewNop()
}
