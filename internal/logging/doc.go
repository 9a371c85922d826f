// Package logging provides a unified logging interface for primefind.
// It abstracts the underlying logging implementation so that the orchestrator
// and its workers log through one small interface, backed by zerolog in
// production and by the standard library logger where that is more convenient.
package logging
