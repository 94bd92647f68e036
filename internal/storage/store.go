package storage

import (
	"context"

	"github.com/quantlake/stockfeed/internal/model"
)

// Store persists per-ticker datasets. Read methods return empty results for
// datasets that have never been written.
type Store interface {
	ReadPrices(ctx context.Context, ticker string) ([]model.PriceBar, error)
	WritePrices(ctx context.Context, ticker string, bars []model.PriceBar) error

	ReadNews(ctx context.Context, ticker string) ([]model.NewsArticle, error)
	WriteNews(ctx context.Context, ticker string, articles []model.NewsArticle) error

	ReadSocial(ctx context.Context, ticker string) ([]model.SocialPost, error)
	WriteSocial(ctx context.Context, ticker string, posts []model.SocialPost) error

	// WriteCleanNews writes the filtered news artifact produced by the
	// cleaning pass, separate from the raw news dataset.
	WriteCleanNews(ctx context.Context, ticker string, articles []model.NewsArticle) error

	Close() error
}
