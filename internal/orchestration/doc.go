// Package orchestration runs one prime search: it validates the run
// configuration, spawns the worker pool, joins it, and hands the collected
// primes to the sink. Presentation is decoupled through the ProgressReporter
// and ResultPresenter interfaces.
package orchestration
