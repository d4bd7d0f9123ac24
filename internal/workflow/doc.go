// Package workflow runs the batch loops that sit between the importer, the
// metadata resolver and the library store.
//
// The Updater walks movies that lack TMDB metadata (or every movie when
// forced), resolves each one sequentially and stores the enrichment. Calls are
// paced by a rate limiter, a file lock keeps two update runs from hitting the
// API at once, and per-item failures are collected into a Summary instead of
// aborting the run. Cancelling the context stops the loop before the next
// item; the partial Summary is still returned.
//
// Ingest persists an importer Batch, applying watched flags and ratings that
// came from the source. Enrich handles the single-movie path used by the
// info command, including hand-off of ambiguous matches to a Chooser.
package workflow
