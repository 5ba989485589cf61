// Package cli provides the interactive RepSphere command-line client.
//
// The REPL wraps the upload/analysis controller: select a recording, run the
// analysis with a live progress bar, then read the report. It also covers
// sign in and sign out, usage and the local history of completed reports.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Ctrl-C while an analysis runs cancels only that analysis.
package cli
