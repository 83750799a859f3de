// Package scraper is the incremental build engine.
//
// For each functional tag it walks the paginated search results, merges
// every card into the accumulated card table, and marks the tag processed.
// Tags already marked processed are skipped, so re-running with the same
// checkpoint resumes where the previous run stopped.
//
// Lifecycle: Idle -> Running -> Completed or Aborted. Cancelling the run's
// context is observed between tags and between pages; the engine then saves
// a final checkpoint and reports Aborted. A failure inside a single tag is
// logged and skipped. A failed checkpoint save ends the run with an error.
package scraper
