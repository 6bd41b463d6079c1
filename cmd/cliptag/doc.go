// Package main hosts the cliptag CLI entrypoint and command graph.
//
// The Cobra command tree runs the analysis pipeline on local files, manages
// the clip library directly (list, rename, tag, delete, import, prune), and
// starts the HTTP API. Configuration resolution and logger setup live in the
// shared command context so subcommands only describe their own flags and
// output.
//
// Add behaviour to the internal packages first and surface it here.
package main
