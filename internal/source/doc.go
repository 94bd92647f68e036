// Package source implements the HTTP clients for the three upstream data
// providers: the reference-news API (opaque-cursor pagination), the forum
// search API (watermark pagination), and the daily price-chart API.
//
// All clients share the same rate-limit policy: an HTTP 429 suspends the
// fetch for a fixed cool-down and retries the same page without advancing
// the cursor, up to a configurable retry budget. Any other transport or
// parse failure aborts the current fetch; whatever was accumulated so far is
// returned alongside the error, so partial results always reach the merge.
package source
