// Package model defines the canonical record types shared across the
// stockfeed pipeline.
//
// Conventions:
//   - Timestamps: time.Time in UTC
//   - Identity keys: article URL, post permalink, or ticker+date for bars
//   - Joined list fields (tickers, keywords) use "|" as the delimiter,
//     order preserving
//   - Optional upstream fields are normalized at fetch time; a record never
//     carries an unresolved null
package model
