// Package assemble drives one manifest preparation run: it scans corpus
// audio, probes metadata through a bounded worker pool, parses transcripts,
// reconciles the two sides, partitions the result into dataset splits, and
// writes validated manifest pairs. A failed partition never aborts the
// others; the run summary carries per-partition outcomes.
package assemble
