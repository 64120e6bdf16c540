package transcript

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"loom/internal/fileutil"
)

func writeTranscript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func stemKey(path string) string { return fileutil.Stem(path) }

func TestTSVParserBasic(t *testing.T) {
	path := writeTranscript(t, "session1.tsv",
		"1.50 4.20 P01: HELLO there.\n"+
			"5.00 6.00 P02: how are, you?\n")

	parser := TSVParser{RecordingKey: stemKey, EndGuard: 0.1, Normalize: NormalizeConfig{Lowercase: true}}
	result, err := parser.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	first := result.Records[0]
	if first.RecordingKey != "session1" {
		t.Fatalf("recording key = %q", first.RecordingKey)
	}
	if first.Speaker != "P01" {
		t.Fatalf("speaker = %q", first.Speaker)
	}
	if first.Start != 1.5 {
		t.Fatalf("start = %f", first.Start)
	}
	// The guard subtraction happens in floats, so compare with a tolerance.
	if got := first.End; math.Abs(got-4.1) > 1e-9 {
		t.Fatalf("end = %f, want 4.1 (end guard applied)", got)
	}
	if first.Text != "hello there" {
		t.Fatalf("text = %q", first.Text)
	}
}

func TestTSVParserDropsBackgroundSpeaker(t *testing.T) {
	path := writeTranscript(t, "session1.tsv",
		"10.0 10.05 background_noise1: some text\n"+
			"11.0 12.0 P05: real speech\n")

	parser := TSVParser{
		RecordingKey: stemKey,
		Normalize:    NormalizeConfig{ExcludeSpeakerPrefixes: []string{"background"}},
	}
	result, err := parser.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(result.Records))
	}
	if result.Records[0].Speaker != "P05" {
		t.Fatalf("surviving speaker = %q", result.Records[0].Speaker)
	}
	if result.Excluded != 1 {
		t.Fatalf("excluded = %d, want 1", result.Excluded)
	}
}

func TestTSVParserSkipsMalformedLines(t *testing.T) {
	path := writeTranscript(t, "session1.tsv",
		"not a timestamp at all\n"+
			"abc 4.0 P01: broken start\n"+
			"1.0 2.0 P01: good line\n")

	parser := TSVParser{RecordingKey: stemKey}
	result, err := parser.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1 (corrupt lines must not void the file)", len(result.Records))
	}
	if result.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", result.Skipped)
	}
}

func TestTSVParserDropsEmptyNormalizedText(t *testing.T) {
	path := writeTranscript(t, "session1.tsv", "1.0 2.0 P01: ...?!\n")

	parser := TSVParser{RecordingKey: stemKey}
	result, err := parser.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 0 {
		t.Fatalf("records = %d, want 0 (empty text must not become a segment)", len(result.Records))
	}
	if result.Excluded != 1 {
		t.Fatalf("excluded = %d, want 1", result.Excluded)
	}
}
