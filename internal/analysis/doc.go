// Package analysis turns an uploaded clip into tags, a key, and a suggested
// name.
//
// Analyze runs a cascade of tiers. The baseline tier combines filename
// heuristics with container metadata and always produces a result. The AI
// tier asks the external service for a better answer and supersedes the
// baseline when it succeeds. When it fails the degraded tier regenerates a
// name for cryptic filenames and, when variability is enabled, injects a
// random extra tag or key. Any fault escaping the tiers collapses to an empty
// result carrying the original name, so callers always receive a well-formed
// Result.
package analysis
