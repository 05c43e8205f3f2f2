// Package merge decides whether multiple files of the same logical
// series can be combined, and combines the ones that can.
//
// # Architecture
//
// The package has three layers:
//
// 1. Analyzer: one (master, candidate) pair, four independent legality
// checks (dates, interval, variables, units) aggregated into a Verdict
// 2. Concatenator: one master against many candidates; runs an Analyzer
// per candidate, keeps the legal ones, and materializes the combined
// header and data
// 3. Report: the human-readable account of what was accepted or
// rejected and why
//
// # Policy
//
// A candidate that fails legality is silently excluded from the data,
// never raised as an error; batch merges must not abort because one
// candidate is unusable. The only hard failure is a self-merge, which is
// rejected at Analyzer construction. Unit equivalence consults a
// directional alias table keyed by the master's unit string; the
// relation is resolved from the master's side only.
package merge
