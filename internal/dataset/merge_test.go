package dataset

import (
	"reflect"
	"testing"
	"time"

	"github.com/quantlake/stockfeed/internal/model"
)

func article(url, title string, published time.Time) model.NewsArticle {
	return model.NewsArticle{URL: url, Title: title, PublishedUTC: published}
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMerge_EmptyIncomingIsNoOp(t *testing.T) {
	existing := []model.NewsArticle{
		article("u1", "one", t0),
		article("u2", "two", t0.Add(time.Hour)),
	}

	got := Merge(existing, nil)
	if !reflect.DeepEqual(got, existing) {
		t.Errorf("Merge(existing, nil) = %v, want existing unchanged", got)
	}

	if got := Merge([]model.NewsArticle(nil), nil); len(got) != 0 {
		t.Errorf("Merge(nil, nil) = %v, want empty", got)
	}
}

func TestMerge_AbsentExistingAdoptsIncoming(t *testing.T) {
	incoming := []model.NewsArticle{
		article("u2", "two", t0.Add(time.Hour)),
		article("u1", "one", t0),
	}

	got := Merge(nil, incoming)
	if !reflect.DeepEqual(got, incoming) {
		t.Errorf("Merge(nil, incoming) = %v, want incoming verbatim", got)
	}

	// The result must be a copy, not an alias of the caller's slice.
	got[0] = article("u9", "nine", t0)
	if incoming[0].URL != "u2" {
		t.Error("Merge(nil, incoming) aliased the incoming slice")
	}
}

func TestMerge_ExistingWinsOnCollision(t *testing.T) {
	existing := []model.NewsArticle{article("u1", "original title", t0)}
	incoming := []model.NewsArticle{article("u1", "re-fetched title", t0.Add(time.Minute))}

	got := Merge(existing, incoming)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Title != "original title" {
		t.Errorf("Title = %q, want the existing record kept", got[0].Title)
	}
}

func TestMerge_KeyUniquenessAndOrder(t *testing.T) {
	existing := []model.NewsArticle{
		article("u1", "one", t0),
		article("u3", "three", t0.Add(3*time.Hour)),
	}
	incoming := []model.NewsArticle{
		article("u2", "two", t0.Add(2*time.Hour)),
		article("u1", "dup", t0),
		article("u4", "four", t0.Add(time.Hour)),
	}

	got := Merge(existing, incoming)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a.URL] {
			t.Errorf("duplicate identity key %q in output", a.URL)
		}
		seen[a.URL] = true
	}

	for i := 1; i < len(got); i++ {
		if got[i].PublishedUTC.Before(got[i-1].PublishedUTC) {
			t.Errorf("output not sorted ascending at index %d", i)
		}
	}

	wantOrder := []string{"u1", "u4", "u2", "u3"}
	for i, url := range wantOrder {
		if got[i].URL != url {
			t.Errorf("got[%d].URL = %q, want %q", i, got[i].URL, url)
		}
	}
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []model.NewsArticle{
		article("u1", "one", t0),
		article("u2", "two", t0.Add(time.Hour)),
	}
	incoming := []model.NewsArticle{
		article("u2", "two again", t0.Add(time.Hour)),
		article("u3", "three", t0.Add(2*time.Hour)),
	}

	once := Merge(existing, incoming)
	twice := Merge(once, incoming)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merge not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestMerge_ReingestScenario(t *testing.T) {
	// Three distinct articles into an empty dataset, then the same three plus
	// one new one: 3 records, then 4 with the old 3 unchanged.
	batch := []model.NewsArticle{
		article("u1", "one", t0),
		article("u2", "two", t0.Add(time.Hour)),
		article("u3", "three", t0.Add(2*time.Hour)),
	}

	first := Merge(nil, batch)
	if len(first) != 3 {
		t.Fatalf("first ingest: len = %d, want 3", len(first))
	}

	second := Merge(first, append(batch, article("u4", "four", t0.Add(3*time.Hour))))
	if len(second) != 4 {
		t.Fatalf("re-ingest: len = %d, want 4", len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(second[i], first[i]) {
			t.Errorf("re-ingest changed existing record %d: %v != %v", i, second[i], first[i])
		}
	}
}

func TestMerge_FullRecordFallback(t *testing.T) {
	// Posts without a permalink have no identity key; equal records collapse,
	// distinct records survive.
	p1 := model.SocialPost{Kind: model.KindComment, Body: "same body", CreatedUTC: t0}
	p2 := model.SocialPost{Kind: model.KindComment, Body: "same body", CreatedUTC: t0}
	p3 := model.SocialPost{Kind: model.KindComment, Body: "other body", CreatedUTC: t0.Add(time.Minute)}

	got := Merge([]model.SocialPost{p1}, []model.SocialPost{p2, p3})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (full-record fallback)", len(got))
	}
	if got[0].Body != "same body" || got[1].Body != "other body" {
		t.Errorf("unexpected records: %v", got)
	}
}

func TestID(t *testing.T) {
	if got := ID("AMZN", KindNews); got != "AMZN_news" {
		t.Errorf("ID = %q, want AMZN_news", got)
	}
	if got := ID("TSLA", KindSocial); got != "TSLA_reddit" {
		t.Errorf("ID = %q, want TSLA_reddit", got)
	}
}
