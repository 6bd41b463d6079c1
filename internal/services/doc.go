// Package services defines shared utilities consumed by the analysis pipeline,
// the clip library, and the HTTP API.
//
// Key responsibilities:
//   - Context helpers that stamp clip IDs, analysis tiers, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures can be
//     classified consistently (degrade, reject, or surface as an HTTP status).
//
// Use these helpers when wiring new components so operational behaviour stays
// uniform across the repository.
package services
