package dataset

import (
	"fmt"
	"sort"

	"github.com/quantlake/stockfeed/internal/model"
)

// Dataset kinds, used to derive dataset identifiers.
const (
	KindPrice  = "price"
	KindNews   = "news"
	KindSocial = "reddit"

	// KindCleanNews is the artifact written by the news cleaning pass,
	// distinct from the raw ingested news dataset.
	KindCleanNews = "news_clean"
)

// ID returns the dataset identifier for one (ticker, kind) pair,
// e.g. "AMZN_news".
func ID(ticker, kind string) string {
	return ticker + "_" + kind
}

// Merge reconciles an incoming batch against an existing dataset.
//
// Existing records come first, so a colliding incoming record is always the
// one discarded (first-seen wins). Records whose IdentityKey is empty fall
// back to full-record equality. The result is sorted ascending by timestamp
// with stable ordering for ties.
//
// An empty incoming batch returns existing untouched, and an absent existing
// dataset adopts the incoming batch verbatim. Applying the same batch twice
// yields the same dataset as applying it once.
func Merge[T model.Record](existing, incoming []T) []T {
	if len(incoming) == 0 {
		return existing
	}
	if len(existing) == 0 {
		out := make([]T, len(incoming))
		copy(out, incoming)
		return out
	}

	seen := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]T, 0, len(existing)+len(incoming))
	for _, records := range [2][]T{existing, incoming} {
		for _, r := range records {
			k := mergeKey(r)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp().Before(out[j].Timestamp())
	})
	return out
}

// mergeKey prefers the record's identity key and falls back to a
// representation of the whole record when no key is available.
func mergeKey(r model.Record) string {
	if k := r.IdentityKey(); k != "" {
		return k
	}
	return fmt.Sprintf("%+v", r)
}
