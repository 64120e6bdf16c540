// Package manifest defines the recording and supervision data model shared by
// the preparation pipeline, the collections that hold them, cross-collection
// integrity validation, and the JSONL codec used to persist manifests.
//
// A Recording describes one physical audio file (metadata only, never the
// waveform). A SupervisionSegment is a labeled time interval that references a
// Recording by id. The two collections are built independently and must be
// validated together before they are written.
package manifest
