package transcript

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"loom/internal/fileutil"
	"loom/internal/logging"
)

// WholeFileParser reads corpora that keep one plain-text transcript per
// recording (ru_open_stt style). Each file yields a single record spanning
// the entire recording; the reconciler substitutes the actual duration.
type WholeFileParser struct {
	Normalize NormalizeConfig
	Logger    *slog.Logger
}

// Parse reads the first non-empty line as the transcription.
func (p WholeFileParser) Parse(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	var text string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text = strings.TrimSpace(scanner.Text())
		if text != "" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("read transcript: %w", err)
	}

	var result Result
	if text == "" {
		p.logger().Warn("skipping empty transcript file", logging.String("path", path))
		result.Skipped++
		return result, nil
	}
	normalized := p.Normalize.Text(text)
	if normalized == "" {
		result.Excluded++
		return result, nil
	}
	result.Records = append(result.Records, Record{
		RecordingKey: fileutil.Stem(path),
		Text:         normalized,
		WholeFile:    true,
	})
	return result, nil
}

func (p WholeFileParser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.NewNop()
}
