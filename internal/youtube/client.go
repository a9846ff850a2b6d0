// Package youtube wraps the YouTube Data API v3 for search discovery and
// batch statistics lookups. All calls share one rate limiter because the
// quota is global to the credential, not per search term.
package youtube

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/metrics"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/model"
)

const (
	// The videos endpoint accepts at most 50 IDs per call.
	maxBatchSize = 50

	// Quota units per https://developers.google.com/youtube/v3/determine_quota_cost
	searchListQuotaCost = 100
	videosListQuotaCost = 1
)

// Config holds per-call behavior for the API client.
type Config struct {
	RequestTimeout time.Duration
	Retry          RetryConfig
}

// Client wraps the YouTube Data API v3 service. It is stateless across
// invocations and safe for concurrent use.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	timeout time.Duration
	retry   RetryConfig
	log     *zap.Logger
}

// NewClient creates an API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string, limiter *rate.Limiter, cfg Config, log *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return NewWithService(service, limiter, cfg, log), nil
}

// NewWithService wraps an existing service; tests point it at a fake server.
func NewWithService(service *youtube.Service, limiter *rate.Limiter, cfg Config, log *zap.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		service: service,
		limiter: limiter,
		timeout: cfg.RequestTimeout,
		retry:   cfg.Retry,
		log:     log,
	}
}

// Search returns up to maxResults candidate videos for term, newest first,
// paginating through continuation tokens. It returns the quota units spent
// alongside whatever was collected before any error.
func (c *Client) Search(ctx context.Context, term string, maxResults int64) ([]model.CandidateVideo, int, error) {
	if term == "" {
		return nil, 0, fmt.Errorf("search term is required")
	}
	if maxResults <= 0 {
		return nil, 0, nil
	}

	var candidates []model.CandidateVideo
	quotaCost := 0
	pageToken := ""

	for int64(len(candidates)) < maxResults {
		pageSize := maxResults - int64(len(candidates))
		if pageSize > maxBatchSize {
			pageSize = maxBatchSize
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return candidates, quotaCost, err
		}

		var resp *youtube.SearchListResponse
		err := withRetry(ctx, c.retry, c.log, "search.list", func() error {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			call := c.service.Search.List([]string{"snippet"}).
				Q(term).
				Type("video").
				Order("date").
				MaxResults(pageSize).
				Context(callCtx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			r, err := call.Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		metrics.RecordAPICall("search.list", err)
		if err != nil {
			return candidates, quotaCost, fmt.Errorf("search %q: %w", term, err)
		}
		quotaCost += searchListQuotaCost
		metrics.RecordQuotaCost("search.list", searchListQuotaCost)

		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" {
				continue
			}
			cand := model.CandidateVideo{VideoID: item.Id.VideoId}
			if item.Snippet != nil {
				cand.TitleHint = item.Snippet.Title
			}
			candidates = append(candidates, cand)
			if int64(len(candidates)) >= maxResults {
				break
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return candidates, quotaCost, nil
}

// FetchStats retrieves title, channel, publish date, and view count for the
// given IDs in batches of up to 50. IDs missing from the response (deleted or
// private videos) are omitted from the result map rather than erroring.
func (c *Client) FetchStats(ctx context.Context, videoIDs []string) (map[string]model.RawStats, int, error) {
	stats := make(map[string]model.RawStats, len(videoIDs))
	quotaCost := 0

	for _, batch := range BatchVideoIDs(videoIDs, maxBatchSize) {
		if err := c.limiter.Wait(ctx); err != nil {
			return stats, quotaCost, err
		}

		ids := batch
		var resp *youtube.VideoListResponse
		err := withRetry(ctx, c.retry, c.log, "videos.list", func() error {
			callCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			r, err := c.service.Videos.List([]string{"snippet", "statistics"}).
				Id(ids...).
				MaxResults(int64(len(ids))).
				Context(callCtx).
				Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		metrics.RecordAPICall("videos.list", err)
		if err != nil {
			return stats, quotaCost, fmt.Errorf("fetch stats: %w", err)
		}
		quotaCost += videosListQuotaCost
		metrics.RecordQuotaCost("videos.list", videosListQuotaCost)

		for _, item := range resp.Items {
			raw := model.RawStats{VideoID: item.Id}
			if item.Snippet != nil {
				raw.Title = item.Snippet.Title
				raw.ChannelTitle = item.Snippet.ChannelTitle
				raw.PublishedAt = item.Snippet.PublishedAt
			}
			if item.Statistics != nil {
				raw.ViewCount = strconv.FormatUint(item.Statistics.ViewCount, 10)
			}
			stats[item.Id] = raw
		}
	}

	return stats, quotaCost, nil
}

// BatchVideoIDs splits video IDs into batches of at most batchSize.
func BatchVideoIDs(videoIDs []string, batchSize int) [][]string {
	if batchSize <= 0 || batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}

	var batches [][]string
	for i := 0; i < len(videoIDs); i += batchSize {
		end := i + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batches = append(batches, videoIDs[i:end])
	}

	return batches
}
