package assemble_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"loom/internal/assemble"
	"loom/internal/corpus"
	"loom/internal/logging"
	"loom/internal/manifest"
	"loom/internal/testsupport"
	"loom/internal/transcript"
)

func mustGet(t *testing.T, name string) corpus.Definition {
	t.Helper()
	def, ok := corpus.Get(name)
	if !ok {
		t.Fatalf("corpus %s not registered", name)
	}
	return def
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// seedSafetCorpus lays out a minimal SAFE-T style tree: mixed-channel wav
// files plus per-session TSV transcripts for the dev and train splits.
func seedSafetCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	testsupportWAV(t, filepath.Join(root, "dev", "audio_dir", "session1_dev_mixed.wav"), 10.0)
	writeFile(t, filepath.Join(root, "dev", "transcript_dir", "session1.tsv"),
		"0.5 2.0 spk1: HELLO THERE\n"+
			"3.0 4.0 spk2: GOOD MORNING\n"+
			"5.0 5.5 background_noise1: door slam\n")

	testsupportWAV(t, filepath.Join(root, "train", "audio_dir", "session2_mixed.wav"), 8.0)
	writeFile(t, filepath.Join(root, "train", "transcript_dir", "session2.tsv"),
		"1.0 2.5 spk3: ONE TWO THREE\n")

	return root
}

func newSafetPipeline(t *testing.T, corpusDir, outputDir string) *assemble.Pipeline {
	t.Helper()
	return &assemble.Pipeline{
		Definition: mustGet(t, "safet"),
		CorpusDir:  corpusDir,
		OutputDir:  outputDir,
		Options: corpus.Options{
			Normalize: transcript.NormalizeConfig{
				Lowercase:              true,
				ExcludeSpeakerPrefixes: []string{"background"},
			},
		},
		Jobs:   2,
		Logger: logging.NewNop(),
	}
}

func TestRunSafetEndToEnd(t *testing.T) {
	corpusDir := seedSafetCorpus(t)
	outputDir := t.TempDir()

	summary, err := newSafetPipeline(t, corpusDir, outputDir).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(summary.Partitions) != 3 {
		t.Fatalf("partitions = %d, want 3 (dev, dev_clean, train)", len(summary.Partitions))
	}
	if failed := summary.Failed(); len(failed) != 0 {
		t.Fatalf("failed partitions: %v", failed)
	}

	recs, err := manifest.ReadRecordings(filepath.Join(outputDir, "recordings_dev.jsonl"))
	if err != nil {
		t.Fatalf("read dev recordings: %v", err)
	}
	if _, ok := recs.Get("session1_dev_mixed"); !ok {
		t.Fatalf("dev recording missing, have %v", recs.IDs())
	}

	sups, err := manifest.ReadSupervisions(filepath.Join(outputDir, "supervisions_dev.jsonl"))
	if err != nil {
		t.Fatalf("read dev supervisions: %v", err)
	}
	// The background-prefixed line is excluded, leaving two utterances.
	if sups.Len() != 2 {
		t.Fatalf("dev supervisions = %d, want 2", sups.Len())
	}
	for _, seg := range sups.All() {
		if seg.RecordingID != "session1_dev_mixed" {
			t.Fatalf("segment bound to %q", seg.RecordingID)
		}
		if seg.Language != "English" {
			t.Fatalf("segment language %q", seg.Language)
		}
		if seg.Text != "hello there" && seg.Text != "good morning" {
			t.Fatalf("unexpected text %q", seg.Text)
		}
	}

	trainSups, err := manifest.ReadSupervisions(filepath.Join(outputDir, "supervisions_train.jsonl"))
	if err != nil {
		t.Fatalf("read train supervisions: %v", err)
	}
	if trainSups.Len() != 1 {
		t.Fatalf("train supervisions = %d, want 1", trainSups.Len())
	}
}

func TestRunIsByteIdenticalAcrossRunsAndJobs(t *testing.T) {
	corpusDir := seedSafetCorpus(t)

	read := func(dir, name string) string {
		t.Helper()
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}

	outA := t.TempDir()
	pipeA := newSafetPipeline(t, corpusDir, outA)
	pipeA.Jobs = 1
	if _, err := pipeA.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	outB := t.TempDir()
	pipeB := newSafetPipeline(t, corpusDir, outB)
	pipeB.Jobs = 4
	if _, err := pipeB.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	for _, name := range []string{
		"recordings_dev.jsonl", "supervisions_dev.jsonl",
		"recordings_train.jsonl", "supervisions_train.jsonl",
	} {
		if read(outA, name) != read(outB, name) {
			t.Fatalf("%s differs between runs", name)
		}
	}
}

func TestRunFailsWithoutAudio(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		"dev/audio_dir", "dev/transcript_dir",
		"train/audio_dir", "train/transcript_dir",
	} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	_, err := newSafetPipeline(t, root, t.TempDir()).Run(context.Background())
	if err == nil {
		t.Fatal("expected error for corpus with no audio")
	}
}

func TestRunFailsOnMissingCorpusDir(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := newSafetPipeline(t, missing, t.TempDir()).Run(context.Background()); err == nil {
		t.Fatal("expected error for missing corpus dir")
	}
}

func TestRunSkipsUnreadableAudio(t *testing.T) {
	corpusDir := seedSafetCorpus(t)
	// A zero-length wav must be skipped, not fail the run.
	writeFile(t, filepath.Join(corpusDir, "dev", "audio_dir", "broken_dev_mixed.wav"), "")

	summary, err := newSafetPipeline(t, corpusDir, t.TempDir()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	unreadable := 0
	for _, p := range summary.Partitions {
		unreadable += p.UnreadableAudio
	}
	// The dev tree is scanned for both dev and dev_clean.
	if unreadable != 2 {
		t.Fatalf("unreadable = %d, want 2", unreadable)
	}
	if failed := summary.Failed(); len(failed) != 0 {
		t.Fatalf("failed partitions: %v", failed)
	}
}

func TestRunRefusesLockedOutputDir(t *testing.T) {
	corpusDir := seedSafetCorpus(t)
	outputDir := t.TempDir()

	lock := flock.New(filepath.Join(outputDir, ".loom.lock"))
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("seed lock: locked=%v err=%v", locked, err)
	}
	defer lock.Unlock()

	if _, err := newSafetPipeline(t, corpusDir, outputDir).Run(context.Background()); err == nil {
		t.Fatal("expected lock contention error")
	}
}

func TestRunWritesUEMRegions(t *testing.T) {
	corpusDir := seedSafetCorpus(t)
	outputDir := t.TempDir()

	pipe := newSafetPipeline(t, corpusDir, outputDir)
	pipe.Options.UEM = true
	summary, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if failed := summary.Failed(); len(failed) != 0 {
		t.Fatalf("failed partitions: %v", failed)
	}

	regions, err := manifest.ReadSupervisions(filepath.Join(outputDir, "uem_dev.jsonl"))
	if err != nil {
		t.Fatalf("read uem: %v", err)
	}
	if regions.Len() != 1 {
		t.Fatalf("uem regions = %d, want 1", regions.Len())
	}
	region, _ := regions.Get("session1_dev_mixed")
	if region.Start != 0 || region.Duration != 10.0 {
		t.Fatalf("uem region = start %v duration %v", region.Start, region.Duration)
	}
}

// seedAMICorpus lays out a minimal AMI style tree: one headset wav per
// meeting plus per-speaker word alignment files.
func seedAMICorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	testsupportWAV(t, filepath.Join(root, "ES2002a", "audio", "ES2002a.Headset-0.wav"), 12.0)
	testsupportWAV(t, filepath.Join(root, "EN2002a", "audio", "EN2002a.Headset-0.wav"), 12.0)

	writeFile(t, filepath.Join(root, "words", "ES2002a.A.words.xml"),
		`<?xml version="1.0"?><nite:root xmlns:nite="http://nite.sourceforge.net/">`+
			`<w nite:id="w0" starttime="0.5" endtime="0.9">okay</w>`+
			`<w nite:id="w1" starttime="1.0" endtime="1.4">then</w>`+
			`</nite:root>`)
	writeFile(t, filepath.Join(root, "words", "EN2002a.A.words.xml"),
		`<?xml version="1.0"?><nite:root xmlns:nite="http://nite.sourceforge.net/">`+
			`<w nite:id="w0" starttime="2.0" endtime="2.4">right</w>`+
			`</nite:root>`)

	return root
}

func TestRunAMISchemePartitioning(t *testing.T) {
	corpusDir := seedAMICorpus(t)
	outputDir := t.TempDir()

	pipe := &assemble.Pipeline{
		Definition: mustGet(t, "ami"),
		CorpusDir:  corpusDir,
		OutputDir:  outputDir,
		Options: corpus.Options{
			MaxPause:  0.2,
			Normalize: transcript.NormalizeConfig{Lowercase: true},
		},
		Jobs:   2,
		Logger: logging.NewNop(),
	}
	summary, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Partitions) != 3 {
		t.Fatalf("partitions = %d, want 3", len(summary.Partitions))
	}
	// No dev meeting exists under this root, so the dev split is empty: an
	// integrity failure for that partition alone.
	if failed := summary.Failed(); len(failed) != 1 || failed[0] != "dev" {
		t.Fatalf("failed partitions = %v, want [dev]", failed)
	}

	trainRecs, err := manifest.ReadRecordings(filepath.Join(outputDir, "recordings_train.jsonl"))
	if err != nil {
		t.Fatalf("read train recordings: %v", err)
	}
	if _, ok := trainRecs.Get("ES2002a.Headset-0"); !ok {
		t.Fatalf("train recording missing, have %v", trainRecs.IDs())
	}

	testRecs, err := manifest.ReadRecordings(filepath.Join(outputDir, "recordings_test.jsonl"))
	if err != nil {
		t.Fatalf("read test recordings: %v", err)
	}
	if _, ok := testRecs.Get("EN2002a.Headset-0"); !ok {
		t.Fatalf("test recording missing, have %v", testRecs.IDs())
	}

	trainSups, err := manifest.ReadSupervisions(filepath.Join(outputDir, "supervisions_train.jsonl"))
	if err != nil {
		t.Fatalf("read train supervisions: %v", err)
	}
	// MaxPause 0.2 bridges the 0.1s gap: one coalesced segment.
	if trainSups.Len() != 1 {
		t.Fatalf("train supervisions = %d, want 1", trainSups.Len())
	}
	seg := trainSups.All()[0]
	if seg.Text != "okay then" {
		t.Fatalf("coalesced text = %q", seg.Text)
	}
	if seg.RecordingID != "ES2002a.Headset-0" {
		t.Fatalf("segment bound to %q", seg.RecordingID)
	}
	if seg.Start != 0.5 || seg.End() != 1.4 {
		t.Fatalf("segment interval = [%v, %v]", seg.Start, seg.End())
	}

	var dev assemble.PartitionOutcome
	for _, p := range summary.Partitions {
		if p.Part == "dev" {
			dev = p
		}
	}
	if !errors.Is(dev.Err, manifest.ErrManifestIntegrity) {
		t.Fatalf("dev err = %v, want a manifest integrity error", dev.Err)
	}
	for _, name := range []string{"recordings_dev.jsonl", "supervisions_dev.jsonl"} {
		if _, err := os.Stat(filepath.Join(outputDir, name)); !os.IsNotExist(err) {
			t.Fatalf("expected no %s, stat err = %v", name, err)
		}
	}
}

func testsupportWAV(t *testing.T, path string, seconds float64) {
	t.Helper()
	testsupport.WriteWAV(t, path, 16000, 1, seconds)
}
