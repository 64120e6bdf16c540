// Package transcript parses corpus-specific transcript formats into a unified
// raw record representation.
//
// Each format is a separate Parser sharing one output contract; the shared
// concerns (timestamp parsing, speaker exclusion, word coalescing, text
// normalization) are factored into utilities parameterized per variant rather
// than duplicated per corpus. Individual malformed lines or records are
// skipped with a warning and counted, never aborting the whole resource.
package transcript
