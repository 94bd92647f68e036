// Package ingest drives one ingestion cycle over the configured ticker
// universe: per ticker, a full-history price refresh, then incremental
// news and social fetches merged into the stored datasets.
//
// Execution is strictly sequential. A failure in one source for one ticker
// is logged and counted but never aborts the rest of the run, and partial
// fetch results are still merged. Re-running after an interruption is safe
// because the merge is idempotent.
package ingest
