// Package library manages the clip collection: ingesting uploads into the
// upload directory, running analysis, applying user edits (including renaming
// files on disk), deleting clips, pruning rows whose files are gone, and
// importing clip lists exported by earlier versions.
//
// A Library holds an exclusive file lock on the data directory while open so
// only one process owns the upload directory.
package library
