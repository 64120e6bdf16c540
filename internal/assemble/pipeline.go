package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"loom/internal/corpus"
	"loom/internal/fileutil"
	"loom/internal/logging"
	"loom/internal/manifest"
	"loom/internal/media/audioinfo"
	"loom/internal/probecache"
	"loom/internal/reconcile"
)

// Pipeline assembles the manifests for one corpus from one corpus root.
type Pipeline struct {
	Definition corpus.Definition
	CorpusDir  string
	OutputDir  string
	Options    corpus.Options

	// Jobs bounds the probe worker pool; values below 1 run serially.
	Jobs int
	// Compress writes .jsonl.gz instead of .jsonl.
	Compress bool

	Extractor audioinfo.Extractor
	// Cache is optional; nil disables probe caching.
	Cache  *probecache.Store
	Logger *slog.Logger

	logger *slog.Logger
	runID  string
}

// partition is one dataset split under assembly, before validation.
type partition struct {
	recordings   *manifest.RecordingSet
	supervisions *manifest.SupervisionSet
	outcome      PartitionOutcome
}

func newPartition(part string) *partition {
	return &partition{
		recordings:   manifest.NewRecordingSet(),
		supervisions: manifest.NewSupervisionSet(),
		outcome:      PartitionOutcome{Part: part},
	}
}

// Run executes the full assembly. The returned error covers run-level
// failures (bad arguments, empty corpus, lock contention); per-partition
// failures are reported in the summary instead.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	p.runID = uuid.NewString()
	p.logger = logging.NewComponentLogger(p.Logger, "assemble").With(
		logging.String(logging.FieldRunID, p.runID),
		logging.String(logging.FieldCorpus, p.Definition.Name))

	info, err := os.Stat(p.CorpusDir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory %s: %w", p.CorpusDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus directory %s: not a directory", p.CorpusDir)
	}
	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(p.OutputDir, ".loom.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is locked by another prepare run", p.OutputDir)
	}
	defer func() { _ = lock.Unlock() }()

	partitions, err := p.assemble(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{RunID: p.runID, Corpus: p.Definition.Name}
	for _, part := range partitions {
		p.finalize(part)
		summary.Partitions = append(summary.Partitions, part.outcome)
	}
	return summary, nil
}

// assemble builds the in-memory partitions. Scheme corpora are scanned once
// and split by session key; layout corpora get one partition per layout.
func (p *Pipeline) assemble(ctx context.Context) ([]*partition, error) {
	layouts := p.Definition.Layouts()
	scheme, err := p.selectScheme()
	if err != nil {
		return nil, err
	}

	var partitions []*partition
	totalAudio := 0
	for _, layout := range layouts {
		var scanned []*partition
		var count int
		if scheme != nil {
			scanned, count, err = p.scanScheme(ctx, layout, scheme)
		} else {
			scanned, count, err = p.scanLayout(ctx, layout)
		}
		if err != nil {
			return nil, err
		}
		totalAudio += count
		partitions = append(partitions, scanned...)
	}

	if totalAudio == 0 {
		return nil, fmt.Errorf("no audio files found under %s for corpus %s", p.CorpusDir, p.Definition.Name)
	}
	return partitions, nil
}

func (p *Pipeline) selectScheme() (corpus.Scheme, error) {
	if len(p.Definition.Schemes) == 0 {
		return nil, nil
	}
	name := p.Options.Scheme
	if name == "" {
		name = p.Definition.DefaultScheme
	}
	scheme, ok := p.Definition.Schemes[name]
	if !ok {
		return nil, fmt.Errorf("corpus %s has no partition scheme %q", p.Definition.Name, name)
	}
	return scheme, nil
}

// scanLayout assembles one per-directory partition.
func (p *Pipeline) scanLayout(ctx context.Context, layout corpus.Layout) ([]*partition, int, error) {
	part := newPartition(layout.Part)
	logger := p.logger.With(logging.String(logging.FieldPart, layout.Part))

	count, err := p.scanAudio(ctx, layout, logger, func(manifest.Recording) *partition {
		return part
	}, part)
	if err != nil {
		return nil, 0, err
	}
	if err := p.attachSupervisions(layout, logger, part.recordings, func(manifest.SupervisionSegment) *partition {
		return part
	}, part); err != nil {
		return nil, 0, err
	}
	return []*partition{part}, count, nil
}

// scanScheme assembles a partition per split by routing each recording
// through the scheme's session-key assignment.
func (p *Pipeline) scanScheme(ctx context.Context, layout corpus.Layout, scheme corpus.Scheme) ([]*partition, int, error) {
	logger := p.logger
	bySplit := make(map[string]*partition)
	ordered := make([]*partition, 0, len(scheme))
	for _, split := range scheme.Splits() {
		part := newPartition(split)
		bySplit[split] = part
		ordered = append(ordered, part)
	}
	if len(ordered) == 0 {
		return nil, 0, fmt.Errorf("corpus %s: partition scheme has no splits", p.Definition.Name)
	}
	// Skips that happen before split routing (unreadable audio, unassigned
	// sessions, parse drops) are tallied on the first split.
	overflow := ordered[0]

	all := manifest.NewRecordingSet()
	routeRecording := func(rec manifest.Recording) *partition {
		session := rec.ID
		if p.Definition.SessionKey != nil {
			session = p.Definition.SessionKey(rec.ID)
		}
		split, ok := scheme.SplitFor(session)
		if !ok {
			return nil
		}
		return bySplit[split]
	}

	count, err := p.scanAudio(ctx, layout, logger, routeRecording, overflow)
	if err != nil {
		return nil, 0, err
	}
	for _, part := range ordered {
		for _, rec := range part.recordings.All() {
			if err := all.Add(rec); err != nil {
				return nil, 0, err
			}
		}
	}

	routeSupervision := func(seg manifest.SupervisionSegment) *partition {
		rec, ok := all.Get(seg.RecordingID)
		if !ok {
			return nil
		}
		return routeRecording(rec)
	}
	if err := p.attachSupervisions(layout, logger, all, routeSupervision, overflow); err != nil {
		return nil, 0, err
	}
	return ordered, count, nil
}

// scanAudio probes every audio file under the layout and routes the
// resulting recordings. A nil route drops the recording as unassigned.
func (p *Pipeline) scanAudio(ctx context.Context, layout corpus.Layout, logger *slog.Logger, route func(manifest.Recording) *partition, overflow *partition) (int, error) {
	audioDir := filepath.Join(p.CorpusDir, layout.AudioDir)
	paths, err := fileutil.Rglob(audioDir, layout.AudioGlob)
	if err != nil {
		return 0, fmt.Errorf("scan audio: %w", err)
	}
	if len(paths) == 0 {
		return 0, nil
	}

	results := p.probeAll(ctx, paths)
	for i, path := range paths {
		if results[i].err != nil {
			overflow.outcome.UnreadableAudio++
			logger.Warn("skipping unreadable audio file",
				logging.String("path", path),
				logging.Error(results[i].err))
			continue
		}
		info := results[i].info

		id := fileutil.Stem(path)
		if p.Definition.RecordingID != nil {
			id = p.Definition.RecordingID(path)
		}
		channels := make([]int, info.Channels)
		for c := range channels {
			channels[c] = c
		}
		rec, err := manifest.NewRecording(id, []manifest.AudioSource{{
			Type:     "file",
			Channels: channels,
			Source:   path,
		}}, info.SampleRate, info.NumSamples)
		if err != nil {
			overflow.outcome.UnreadableAudio++
			logger.Warn("skipping audio file with unusable metadata",
				logging.String("path", path),
				logging.Error(err))
			continue
		}

		part := route(rec)
		if part == nil {
			overflow.outcome.Unassigned++
			logger.Warn("recording session not assigned by partition scheme",
				logging.String(logging.FieldRecordingID, rec.ID))
			continue
		}
		if err := part.recordings.Add(rec); err != nil {
			return 0, fmt.Errorf("register recording: %w", err)
		}
	}
	return len(paths), nil
}

// attachSupervisions parses every transcript under the layout, reconciles
// records against the known recordings, and routes the surviving segments.
func (p *Pipeline) attachSupervisions(layout corpus.Layout, logger *slog.Logger, recordings *manifest.RecordingSet, route func(manifest.SupervisionSegment) *partition, overflow *partition) error {
	transcriptDir := filepath.Join(p.CorpusDir, layout.TranscriptDir)
	paths, err := fileutil.Rglob(transcriptDir, layout.TranscriptGlob)
	if err != nil {
		return fmt.Errorf("scan transcripts: %w", err)
	}

	parser := p.Definition.NewParser(p.Options, layout.Part, logger)
	rec := reconcile.New(recordings, p.Definition.Language, logger)
	for _, path := range paths {
		result, err := parser.Parse(path)
		if err != nil {
			return fmt.Errorf("parse transcript %s: %w", path, err)
		}
		overflow.outcome.ParseSkipped += result.Skipped
		overflow.outcome.ParseExcluded += result.Excluded

		for _, raw := range result.Records {
			candidates := p.Definition.Expand(raw, p.Options)
			for _, seg := range rec.Reconcile(raw, candidates) {
				part := route(seg)
				if part == nil {
					continue
				}
				if err := part.supervisions.Add(seg); err != nil {
					return fmt.Errorf("register supervision: %w", err)
				}
			}
		}
	}

	report := rec.Report()
	overflow.outcome.Orphaned += report.Orphaned
	overflow.outcome.BadTimestamps += report.BadTimestamps
	overflow.outcome.Overruns += report.Overruns
	return nil
}

// finalize validates one assembled partition and writes its manifest pair
// (plus the optional UEM file). Failures stay on the partition outcome.
func (p *Pipeline) finalize(part *partition) {
	logger := p.logger.With(logging.String(logging.FieldPart, part.outcome.Part))
	part.outcome.Recordings = part.recordings.Len()
	part.outcome.Supervisions = part.supervisions.Len()

	// An empty split fails validation like any other integrity problem; the
	// remaining partitions are still written.
	if err := manifest.Validate(part.recordings, part.supervisions); err != nil {
		part.outcome.Err = err
		logger.Error("partition failed integrity validation", logging.Error(err))
		return
	}

	ext := ".jsonl"
	if p.Compress {
		ext = ".jsonl.gz"
	}
	recPath := filepath.Join(p.OutputDir, "recordings_"+part.outcome.Part+ext)
	supPath := filepath.Join(p.OutputDir, "supervisions_"+part.outcome.Part+ext)

	if err := manifest.WriteRecordings(recPath, part.recordings); err != nil {
		part.outcome.Err = fmt.Errorf("write recordings: %w", err)
		logger.Error("failed to write recording manifest", logging.Error(err))
		return
	}
	if err := manifest.WriteSupervisions(supPath, part.supervisions); err != nil {
		// A partition publishes both files or neither.
		_ = os.Remove(recPath)
		part.outcome.Err = fmt.Errorf("write supervisions: %w", err)
		logger.Error("failed to write supervision manifest", logging.Error(err))
		return
	}
	part.outcome.Files = []string{recPath, supPath}

	if p.Options.UEM {
		uemPath := filepath.Join(p.OutputDir, "uem_"+part.outcome.Part+ext)
		if err := manifest.WriteSupervisions(uemPath, uemRegions(part.recordings)); err != nil {
			part.outcome.Err = fmt.Errorf("write uem: %w", err)
			logger.Error("failed to write uem manifest", logging.Error(err))
			return
		}
		part.outcome.Files = append(part.outcome.Files, uemPath)
	}

	logger.Info("partition manifests written",
		logging.Int("recordings", part.outcome.Recordings),
		logging.Int("supervisions", part.outcome.Supervisions),
		logging.Int("skips", part.outcome.Skips()))
}

// uemRegions builds one whole-recording scoring region per recording.
func uemRegions(recordings *manifest.RecordingSet) *manifest.SupervisionSet {
	regions := manifest.NewSupervisionSet()
	for _, rec := range recordings.All() {
		// Add cannot fail here: recording ids are unique by construction.
		_ = regions.Add(manifest.SupervisionSegment{
			ID:          rec.ID,
			RecordingID: rec.ID,
			Start:       0,
			Duration:    rec.Duration,
		})
	}
	return regions
}
