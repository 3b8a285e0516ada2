// Package main hosts the forcealign CLI entrypoint and command graph.
//
// The Cobra-based command tree loads a transcript, per-segment emission
// matrices and a vocabulary from disk, aligns them, and prints sentence and
// word timings as JSON, a table, or SRT. The same alignment is served over
// HTTP by `forcealign serve`, and every run can be recorded in the run
// history database for later `forcealign runs` queries. `forcealign logs` tails a running
// server's in-memory log stream.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
