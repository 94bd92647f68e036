// Package storage persists per-ticker datasets behind a single Store
// contract, satisfied by a flat-file CSV backend or a Postgres backend.
//
// Reads of a dataset that was never created return empty, not an error.
// Every write replaces the stored dataset with the caller's records: the
// orchestrator merges in memory first, so a write is atomic from the
// perspective of the single ingesting process. The Postgres backend
// implements replace as delete-then-insert inside one transaction.
package storage
