// Package ffprobe provides a typed wrapper around ffprobe JSON output and a
// probe.Reader backed by it.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio stream properties
//   - Format: container-level metadata (duration, bitrate, tags)
//   - Reader: probe.Reader that shells out to ffprobe
//
// Helper methods on Result parse duration, bitrate, genre and tempo tags.
package ffprobe
