package corpus

import (
	"fmt"
	"log/slog"
	"sort"

	"loom/internal/transcript"
)

// Options carries the per-run knobs a corpus definition understands.
type Options struct {
	// Mic selects the microphone/channel type for corpora that ship several
	// (enumerated per corpus).
	Mic string
	// Scheme selects a named partition scheme for corpora partitioned by
	// session-id prefix.
	Scheme string
	// MaxPause is the word-coalescing threshold in seconds for alignment
	// formats.
	MaxPause float64
	// UEM requests an additional usable-region supervision output.
	UEM bool
	// Normalize is the text normalization configuration applied by parsers.
	Normalize transcript.NormalizeConfig
}

// Layout names one partition's audio and transcript locations relative to
// the corpus root. Corpora partitioned by scheme use a single layout with an
// empty Part.
type Layout struct {
	Part           string
	AudioDir       string
	AudioGlob      string
	TranscriptDir  string
	TranscriptGlob string
}

// Definition is the full static description of one supported corpus.
type Definition struct {
	Name        string
	Description string
	Language    string

	// Mics enumerates supported microphone selections; empty when the
	// corpus has a single microphone condition.
	Mics       []string
	DefaultMic string

	// Schemes holds named partition schemes for prefix-partitioned corpora;
	// nil for corpora with per-split directory layouts.
	Schemes       map[string]Scheme
	DefaultScheme string

	// Layouts returns the per-split locations to scan.
	Layouts func() []Layout

	// NewParser builds the transcript parser for one layout.
	NewParser func(opts Options, part string, logger *slog.Logger) transcript.Parser

	// RecordingID derives the recording id from an audio path; nil means
	// the file stem.
	RecordingID func(path string) string

	// SessionKey extracts the scheme-membership key from a recording id
	// (only used with Schemes).
	SessionKey func(recordingID string) string

	// Expand turns a raw record into the candidate recording ids it may
	// bind to. The fan-out shape is corpus policy, never shared.
	Expand func(rec transcript.Record, opts Options) []string
}

// Validate checks a definition's static configuration, including that every
// partition scheme is a disjoint cover.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("corpus definition missing name")
	}
	if d.Layouts == nil || d.NewParser == nil || d.Expand == nil {
		return fmt.Errorf("corpus %s: incomplete definition", d.Name)
	}
	for name, scheme := range d.Schemes {
		if err := scheme.Validate(); err != nil {
			return fmt.Errorf("corpus %s scheme %s: %w", d.Name, name, err)
		}
	}
	return nil
}

var registry = map[string]Definition{}

func register(def Definition) {
	if err := def.Validate(); err != nil {
		panic(err)
	}
	if _, ok := registry[def.Name]; ok {
		panic(fmt.Sprintf("corpus %s registered twice", def.Name))
	}
	registry[def.Name] = def
}

// Get looks up a corpus definition by name.
func Get(name string) (Definition, bool) {
	def, ok := registry[name]
	return def, ok
}

// Names returns all registered corpus names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
