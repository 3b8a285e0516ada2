// Package preflight verifies the environment forcealign writes to before a
// command relies on it: the state and log directories must be accessible
// and, when run history is enabled, the database must open with the
// expected schema.
package preflight
