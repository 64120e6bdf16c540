package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"loom/internal/manifest"
)

const amiSample = `<?xml version="1.0" encoding="UTF-8"?>
<nite:root xmlns:nite="http://nite.sourceforge.net/">
  <w nite:id="w_0" starttime="0.0" endtime="0.5">Um</w>
  <w nite:id="w_1" starttime="0.6" endtime="1.0">well</w>
  <w nite:id="w_2" starttime="2.0" endtime="2.5">okay</w>
  <w nite:id="w_3">untimed</w>
  <vocalsound nite:id="v_0" starttime="3.0" endtime="3.2" type="laugh"/>
  <w nite:id="w_4" starttime="bogus" endtime="4.0">broken</w>
</nite:root>`

func TestWordAlignmentParserCoalesces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ES2002a.FEE005.words.xml")
	if err := os.WriteFile(path, []byte(amiSample), 0o644); err != nil {
		t.Fatal(err)
	}

	parser := WordAlignmentParser{
		MaxPause: 0.2,
		Normalize: NormalizeConfig{
			Lowercase:    true,
			UnknownToken: "<unk>",
			FillerTokens: []string{"um", "mm"},
		},
	}
	result, err := parser.Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}

	first := result.Records[0]
	if first.RecordingKey != "ES2002a" {
		t.Fatalf("recording key = %q", first.RecordingKey)
	}
	if first.Speaker != "FEE005" {
		t.Fatalf("speaker = %q", first.Speaker)
	}
	if first.Gender != "f" {
		t.Fatalf("gender = %q, want f", first.Gender)
	}
	if first.Start != 0.0 || first.End != 1.0 {
		t.Fatalf("first segment = [%f, %f], want [0.0, 1.0]", first.Start, first.End)
	}
	if first.Text != "<unk> well" {
		t.Fatalf("first segment text = %q (filler substitution)", first.Text)
	}
	if result.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1 (malformed start time)", result.Skipped)
	}
}

func TestWordAlignmentParserBadFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "badname.xml")
	if err := os.WriteFile(path, []byte(amiSample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (WordAlignmentParser{}).Parse(path); err == nil {
		t.Fatal("expected error for unparseable file name")
	}
}

func TestWordAlignmentParserRejectsBrokenXML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ES2002a.FEE005.words.xml")
	if err := os.WriteFile(path, []byte(`<nite:root><w starttime="0.0"`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := (WordAlignmentParser{}).Parse(path)
	if !errors.Is(err, manifest.ErrMalformedRecord) {
		t.Fatalf("err = %v, want a malformed record error", err)
	}
}

func TestNormalizeTextFillers(t *testing.T) {
	cfg := NormalizeConfig{
		UnknownToken: "<unk>",
		FillerTokens: []string{"um", "mm"},
		Lowercase:    true,
	}
	if got := cfg.Text("Um, well... MM yes!"); got != "<unk> well <unk> yes" {
		t.Fatalf("normalized = %q", got)
	}
	if got := cfg.Text("?!.,"); got != "" {
		t.Fatalf("punctuation-only input should normalize to empty, got %q", got)
	}
}
