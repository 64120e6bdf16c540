package transcript

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"loom/internal/logging"
	"loom/internal/manifest"
)

// WordAlignmentParser reads XML word-level alignment files (AMI style): one
// file per meeting and speaker containing <w starttime endtime> elements.
// Adjacent words from the same speaker are coalesced into segments while the
// inter-word gap stays within MaxPause seconds.
type WordAlignmentParser struct {
	// MaxPause is the largest silence (seconds) bridged when merging
	// adjacent words into one segment. Zero merges only back-to-back words.
	MaxPause  float64
	Normalize NormalizeConfig
	Logger    *slog.Logger
	// Keys maps a transcript path to (recording key, speaker). When nil,
	// the "<meeting>.<speaker>.words.xml" convention applies.
	Keys func(path string) (recordingKey, speaker string, err error)
}

// Parse extracts all word annotations carrying both time attributes and
// coalesces them. Words with missing or malformed times are skipped with a
// warning; other element kinds (vocal sounds, punctuation events) are
// ignored.
func (p WordAlignmentParser) Parse(path string) (Result, error) {
	keyFn := p.Keys
	if keyFn == nil {
		keyFn = defaultAlignmentKeys
	}
	recordingKey, speaker, err := keyFn(path)
	if err != nil {
		return Result{}, err
	}
	if p.Normalize.ExcludedSpeaker(speaker) {
		return Result{Excluded: 1}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	logger := p.logger()
	var (
		result Result
		words  []Record
	)
	decoder := xml.NewDecoder(file)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, manifest.Wrap(manifest.ErrMalformedRecord, "transcript", "decode", path, err)
		}
		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "w" {
			continue
		}

		var startAttr, endAttr string
		for _, attr := range start.Attr {
			switch attr.Name.Local {
			case "starttime":
				startAttr = attr.Value
			case "endtime":
				endAttr = attr.Value
			}
		}
		var text string
		if err := decoder.DecodeElement(&text, &start); err != nil {
			logger.Warn("skipping unreadable word element",
				logging.String("path", path), logging.Error(err))
			result.Skipped++
			continue
		}
		// Alignments without both timestamps carry no usable interval.
		if startAttr == "" || endAttr == "" {
			continue
		}
		begin, err := ParseSeconds(startAttr)
		if err != nil {
			logger.Warn("skipping word with malformed start time",
				logging.String("path", path), logging.Error(err))
			result.Skipped++
			continue
		}
		end, err := ParseSeconds(endAttr)
		if err != nil {
			logger.Warn("skipping word with malformed end time",
				logging.String("path", path), logging.Error(err))
			result.Skipped++
			continue
		}

		words = append(words, Record{
			RecordingKey: recordingKey,
			Speaker:      speaker,
			Gender:       genderFromSpeaker(speaker),
			Start:        begin,
			End:          end,
			Text:         strings.TrimSpace(text),
		})
	}

	for _, segment := range Coalesce(words, p.MaxPause) {
		text := p.Normalize.Text(segment.Text)
		if text == "" {
			result.Excluded++
			continue
		}
		segment.Text = text
		result.Records = append(result.Records, segment)
	}
	return result, nil
}

func (p WordAlignmentParser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return logging.NewNop()
}

// defaultAlignmentKeys parses the "<meeting>.<speaker>.words.xml" layout.
func defaultAlignmentKeys(path string) (string, string, error) {
	parts := strings.Split(filepath.Base(path), ".")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("alignment file %s: want <meeting>.<speaker>.words.xml", path)
	}
	return parts[0], parts[1], nil
}

// genderFromSpeaker derives the gender tag from the speaker label's leading
// letter, the convention used by meeting-corpus speaker ids (FEE005, MEE006).
func genderFromSpeaker(speaker string) string {
	if speaker == "" {
		return ""
	}
	switch speaker[0] {
	case 'F', 'f':
		return "f"
	case 'M', 'm':
		return "m"
	default:
		return ""
	}
}
