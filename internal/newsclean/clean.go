package newsclean

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/quantlake/stockfeed/internal/model"
	"github.com/quantlake/stockfeed/internal/textsim"
)

const (
	// Articles closer together than this are duplicate candidates.
	dupWindow = 24 * time.Hour

	// Title similarity strictly above this drops the later article.
	dupThreshold = 0.8
)

// Title framings that mark analysis/opinion pieces rather than news events.
// The list is fixed; relevance keywords are the per-ticker knob.
var noisePattern = regexp.MustCompile(`(?i)` + strings.Join([]string{
	`^Why\b`,
	`^Is\b`,
	`^Should\b`,
	`Better Buy\b`,
	`Top Analyst Reports\b`,
	`Stock Market Today\b`,
	`Earnings Preview\b`,
	`Price Over Earnings\b`,
	`What\b`,
	`Here's Why\b`,
	`Prediction\b`,
}, "|"))

// Clean runs the full pipeline: relevance filter, noise removal, then
// near-duplicate suppression over the timestamp-sorted survivors. The input
// slice is not modified.
func Clean(articles []model.NewsArticle, keywords []string) []model.NewsArticle {
	kept := FilterRelevant(articles, keywords)
	kept = RemoveNoise(kept)
	return SuppressNearDuplicates(kept)
}

// FilterRelevant keeps articles whose lower-cased title plus description
// contains at least one keyword as a plain substring. No keywords means
// nothing is relevant.
func FilterRelevant(articles []model.NewsArticle, keywords []string) []model.NewsArticle {
	var kept []model.NewsArticle
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		for _, kw := range keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				kept = append(kept, a)
				break
			}
		}
	}
	return kept
}

// RemoveNoise drops articles whose title matches the opinion/analysis
// pattern list.
func RemoveNoise(articles []model.NewsArticle) []model.NewsArticle {
	var kept []model.NewsArticle
	for _, a := range articles {
		if noisePattern.MatchString(a.Title) {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// SuppressNearDuplicates sorts articles ascending by publication time and
// walks the sequence once. An article is dropped when the gap to the
// immediately preceding surviving article is under 24 hours and the titles'
// similarity ratio exceeds 0.8; the earlier report is the one kept. Both
// bounds are strict, so a pair exactly 24 hours or exactly 0.8 apart
// survives.
func SuppressNearDuplicates(articles []model.NewsArticle) []model.NewsArticle {
	sorted := make([]model.NewsArticle, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedUTC.Before(sorted[j].PublishedUTC)
	})

	var kept []model.NewsArticle
	for _, a := range sorted {
		if len(kept) > 0 {
			prev := kept[len(kept)-1]
			gap := a.PublishedUTC.Sub(prev.PublishedUTC)
			if gap < dupWindow && textsim.Ratio(a.Title, prev.Title) > dupThreshold {
				continue
			}
		}
		kept = append(kept, a)
	}
	return kept
}
