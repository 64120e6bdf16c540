package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/assemble"
	"loom/internal/config"
	"loom/internal/corpus"
	"loom/internal/logging"
	"loom/internal/media/audioinfo"
	"loom/internal/probecache"
	"loom/internal/transcript"
)

func newPrepareCommand(ctx *commandContext) *cobra.Command {
	var (
		micFlag      string
		schemeFlag   string
		maxPauseFlag float64
		jobsFlag     int
		uemFlag      bool
		compressFlag bool
	)

	cmd := &cobra.Command{
		Use:   "prepare <corpus> <corpus-dir> [output-dir]",
		Short: "Build recording and supervision manifests for a corpus",
		Long: "Prepare scans a corpus directory for audio and transcripts, reconciles\n" +
			"the two sides, and writes one validated manifest pair per dataset split.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			def, ok := corpus.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown corpus %q (run `loom corpora` for the supported list)", args[0])
			}

			corpusDir, err := config.ExpandPath(args[1])
			if err != nil {
				return fmt.Errorf("resolve corpus dir: %w", err)
			}
			outputDir := cfg.Paths.OutputDir
			if len(args) == 3 {
				if outputDir, err = config.ExpandPath(args[2]); err != nil {
					return fmt.Errorf("resolve output dir: %w", err)
				}
			}

			opts, err := buildOptions(cmd, def, cfg, micFlag, schemeFlag, maxPauseFlag, uemFlag)
			if err != nil {
				return err
			}
			jobs := jobsFlag
			if !cmd.Flags().Changed("jobs") {
				jobs = cfg.Prepare.Jobs
			}
			compress := compressFlag
			if !cmd.Flags().Changed("compress") {
				compress = cfg.Prepare.Compress
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			pipeline := &assemble.Pipeline{
				Definition: def,
				CorpusDir:  corpusDir,
				OutputDir:  outputDir,
				Options:    opts,
				Jobs:       jobs,
				Compress:   compress,
				Extractor:  audioinfo.Extractor{FFprobeBinary: cfg.FFprobeBinary()},
				Logger:     logger,
			}

			if cfg.ProbeCache.Enabled {
				cache, err := probecache.Open(cfg.ProbeCache.Path)
				if err != nil {
					return fmt.Errorf("open probe cache: %w", err)
				}
				defer cache.Close()
				pipeline.Cache = cache
			}

			summary, err := pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), summary)
			if failed := summary.Failed(); len(failed) > 0 {
				return fmt.Errorf("partition(s) failed: %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&micFlag, "mic", "", "Microphone selection for multi-mic corpora")
	cmd.Flags().StringVar(&schemeFlag, "partition", "", "Partition scheme for scheme-split corpora")
	cmd.Flags().Float64Var(&maxPauseFlag, "max-pause", 0, "Largest silence in seconds bridged when coalescing word alignments")
	cmd.Flags().IntVar(&jobsFlag, "jobs", 0, "Concurrent audio probe workers")
	cmd.Flags().BoolVar(&uemFlag, "uem", false, "Write usable-region (UEM) files alongside the manifests")
	cmd.Flags().BoolVar(&compressFlag, "compress", false, "Write gzip-compressed manifests")

	return cmd
}

// buildOptions resolves per-run corpus options from flags, config, and the
// corpus definition's defaults, rejecting selections the corpus does not
// offer.
func buildOptions(cmd *cobra.Command, def corpus.Definition, cfg *config.Config, mic, scheme string, maxPause float64, uem bool) (corpus.Options, error) {
	opts := corpus.Options{
		Normalize: transcript.NormalizeConfig{
			Lowercase:              cfg.Normalize.Lowercase,
			UnknownToken:           cfg.Normalize.UnknownToken,
			FillerTokens:           cfg.Normalize.FillerTokens,
			ExcludeSpeakerPrefixes: cfg.Normalize.ExcludeSpeakerPrefixes,
		},
	}

	opts.Mic = strings.TrimSpace(mic)
	if opts.Mic == "" {
		opts.Mic = def.DefaultMic
	}
	if opts.Mic != "" && len(def.Mics) > 0 && !containsString(def.Mics, strings.ToLower(opts.Mic)) {
		return corpus.Options{}, fmt.Errorf("corpus %s does not support mic %q (supported: %s)",
			def.Name, opts.Mic, strings.Join(def.Mics, ", "))
	}
	if opts.Mic != "" && len(def.Mics) == 0 {
		return corpus.Options{}, fmt.Errorf("corpus %s has no microphone selections", def.Name)
	}

	opts.Scheme = strings.TrimSpace(scheme)
	if opts.Scheme != "" {
		if _, ok := def.Schemes[opts.Scheme]; !ok {
			return corpus.Options{}, fmt.Errorf("corpus %s has no partition scheme %q", def.Name, opts.Scheme)
		}
	}

	opts.MaxPause = maxPause
	if !cmd.Flags().Changed("max-pause") {
		opts.MaxPause = cfg.Prepare.MaxPause
	}
	opts.UEM = uem
	if !cmd.Flags().Changed("uem") {
		opts.UEM = cfg.Prepare.UEM
	}
	return opts, nil
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
