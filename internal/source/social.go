package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/quantlake/stockfeed/internal/model"
)

// SocialClient fetches forum submissions and comments from the archive
// search API. Pagination is watermark-based: the "after" cursor advances to
// one second past the newest item seen, and a page with zero items ends the
// fetch.
type SocialClient struct {
	core
	baseURL  string
	pageSize int
	pacing   time.Duration
}

// NewSocialClient creates a social client. No API key is required by this
// integration.
func NewSocialClient(baseURL string, pageSize int, pacing time.Duration, opts ...Option) *SocialClient {
	c := &SocialClient{
		core:     newCore(),
		baseURL:  baseURL,
		pageSize: pageSize,
		pacing:   pacing,
	}
	for _, opt := range opts {
		opt(&c.core)
	}
	return c
}

type socialResponse struct {
	Data []socialItem `json:"data"`
}

type socialItem struct {
	Author     string  `json:"author"`
	Score      int64   `json:"score"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Body       string  `json:"body"`
	FullLink   string  `json:"full_link"`
	Permalink  string  `json:"permalink"`
	LinkID     string  `json:"link_id"`
	ID         string  `json:"id"`
	CreatedUTC float64 `json:"created_utc"`
}

// FetchRange fetches all submissions and comments matching query in the
// subreddit across [start, end). A failure in the submission pass does not
// skip the comment pass; whatever was accumulated is returned together with
// the joined errors.
func (c *SocialClient) FetchRange(ctx context.Context, query, subreddit string, start, end time.Time) ([]model.SocialPost, error) {
	posts, subErr := c.fetchEndpoint(ctx, "submission", query, subreddit, start, end)
	comments, comErr := c.fetchEndpoint(ctx, "comment", query, subreddit, start, end)
	posts = append(posts, comments...)
	return posts, errors.Join(subErr, comErr)
}

// fetchEndpoint drives the watermark pagination loop for one endpoint.
func (c *SocialClient) fetchEndpoint(ctx context.Context, endpoint, query, subreddit string, start, end time.Time) ([]model.SocialPost, error) {
	var posts []model.SocialPost
	after := start.Unix()
	before := end.Unix()

	for {
		params := url.Values{
			"q":         {query},
			"subreddit": {subreddit},
			"after":     {strconv.FormatInt(after, 10)},
			"before":    {strconv.FormatInt(before, 10)},
			"size":      {strconv.Itoa(c.pageSize)},
			"sort":      {"asc"},
			"sort_type": {"created_utc"},
		}
		pageURL := c.baseURL + "/" + endpoint + "/?" + params.Encode()

		body, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return posts, fmt.Errorf("fetch %s page: %w", endpoint, err)
		}

		var page socialResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return posts, fmt.Errorf("parse %s page: %w", endpoint, err)
		}
		if len(page.Data) == 0 {
			return posts, nil
		}

		for _, item := range page.Data {
			posts = append(posts, normalizePost(endpoint, item))
		}
		c.logger.Debug("collected social page",
			"endpoint", endpoint,
			"page_size", len(page.Data),
			"total", len(posts),
		)

		// Advance the watermark one second past the newest item seen.
		after = int64(page.Data[len(page.Data)-1].CreatedUTC) + 1

		if err := sleep(ctx, c.pacing); err != nil {
			return posts, err
		}
	}
}

// normalizePost maps one raw item to a canonical record.
func normalizePost(endpoint string, item socialItem) model.SocialPost {
	author := item.Author
	if author == "" {
		author = "[deleted]"
	}

	post := model.SocialPost{
		CreatedUTC: time.Unix(int64(item.CreatedUTC), 0).UTC(),
		Author:     author,
		Score:      item.Score,
	}

	if endpoint == "comment" {
		// Comments carry no title; the permalink is rebuilt from the parent
		// link and the comment ID.
		linkID := item.LinkID
		if i := strings.LastIndex(linkID, "_"); i >= 0 {
			linkID = linkID[i+1:]
		}
		post.Kind = model.KindComment
		post.Body = flattenNewlines(item.Body)
		post.Permalink = fmt.Sprintf("https://www.reddit.com/comments/%s/_/%s/", linkID, item.ID)
		return post
	}

	post.Kind = model.KindSubmission
	post.Title = flattenNewlines(item.Title)
	post.Body = flattenNewlines(item.Selftext)
	post.Permalink = item.FullLink
	if post.Permalink == "" {
		post.Permalink = "https://reddit.com" + item.Permalink
	}
	return post
}

func flattenNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
