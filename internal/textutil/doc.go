// Package textutil provides text processing utilities for filename handling.
//
// The primary use cases are:
//   - Sanitizing display names for safe filesystem use
//   - Folding free text into ASCII slugs for stored filenames
package textutil
