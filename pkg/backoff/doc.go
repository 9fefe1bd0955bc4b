// Package backoff spaces out retries of a failing reconciliation loop.
//
// A Tracker follows one loop's failure streak and asks its Strategy for the
// next wait; Reset ends the streak after a good pass. Decorrelated jitter is
// the default so several units hitting the same broken cluster do not retry
// together.
package backoff
