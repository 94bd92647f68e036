// Package dataset reconciles freshly fetched record batches against the
// previously persisted dataset for a (ticker, kind) pair.
//
// Merging is an idempotent upsert-by-key: an existing record always wins over
// an incoming record with the same identity key, and output is sorted
// ascending by timestamp. Datasets only grow through merges; the sole
// exception is the full-history price refresh, which replaces the dataset
// wholesale at the storage layer.
package dataset
