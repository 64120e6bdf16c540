// Package corpus holds the static, per-corpus configuration the pipeline is
// parameterized by: directory layouts, transcript parser selection, dataset
// partition schemes, and the rules that expand a raw record's recording key
// into concrete candidate recording ids.
//
// Definitions form a closed registry. Corpus quirks (microphone fan-out,
// session exclusions, end-time guards) are explicit, named choices here so
// that no corpus's one-off behavior silently generalizes to the others.
package corpus
