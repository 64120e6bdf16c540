// Package reconcile binds raw transcript records to concrete recordings and
// enforces every temporal-consistency invariant of the manifest data model.
//
// Each raw record may expand into several candidate recording ids (one per
// physical microphone channel); per-corpus expansion rules live with the
// corpus definitions, never here. For every candidate the reconciler either
// emits a normalized supervision segment or skips it for one independently
// countable reason: the recording is unknown, the interval is non-positive,
// or the interval overruns the recording. Overrunning segments are dropped,
// never clipped, so the original annotation bounds stay auditable.
package reconcile
