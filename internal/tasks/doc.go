// package tasks implements the review-to-playlist pipeline.
//
// The core abstraction is ListEngine, whose ListMaker implementation runs a
// single sequential pass: collect the channel's full upload history, filter
// it down to album reviews matching the caller's criteria, match each review
// against the catalog, and assemble the matched tracks into a playlist
// (skipping creation when an equivalent playlist already exists).
// Operations emit progress updates via channels for non-blocking status
// reporting to the CLI layer.
package tasks
