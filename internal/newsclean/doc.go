// Package newsclean filters a ticker's raw news dataset for downstream use.
//
// The pipeline keeps articles that mention a configured keyword, drops
// opinion/listicle framing by title pattern, then suppresses near-duplicate
// re-reports: a single left-to-right pass over the timestamp-sorted
// survivors drops an article when it follows its surviving predecessor by
// less than 24 hours with a title similarity above 0.8.
//
// The cleaned set is written as a separate artifact; the raw dataset is
// never mutated.
package newsclean
