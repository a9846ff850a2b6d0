// Package normalize converts raw API payloads into canonical highlight
// records. All trust-boundary validation of the external API lives here.
package normalize

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/db/models"
	"github.com/hoopfeed/nba-highlights-ingestion-go/internal/model"
)

// FieldError reports a single invalid field in a raw API payload. The caller
// logs it and skips the offending video without aborting the batch.
type FieldError struct {
	VideoID string
	Field   string
	Value   string
	Reason  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("normalize video %q: field %s=%q: %s", e.VideoID, e.Field, e.Value, e.Reason)
}

// Highlight validates raw stats and builds the canonical record attributed to
// searchTerm. It performs no network or storage access.
func Highlight(raw model.RawStats, searchTerm string) (*models.Highlight, error) {
	if raw.VideoID == "" {
		return nil, &FieldError{Field: "video_id", Reason: "empty"}
	}

	publishedAt, err := time.Parse(time.RFC3339, raw.PublishedAt)
	if err != nil {
		return nil, &FieldError{
			VideoID: raw.VideoID,
			Field:   "published_at",
			Value:   raw.PublishedAt,
			Reason:  "not a valid RFC3339 timestamp",
		}
	}

	viewCount, err := strconv.ParseInt(raw.ViewCount, 10, 64)
	if err != nil {
		return nil, &FieldError{
			VideoID: raw.VideoID,
			Field:   "view_count",
			Value:   raw.ViewCount,
			Reason:  "not an integer",
		}
	}
	if viewCount < 0 {
		return nil, &FieldError{
			VideoID: raw.VideoID,
			Field:   "view_count",
			Value:   raw.ViewCount,
			Reason:  "negative",
		}
	}

	return models.NewHighlight(raw.VideoID, raw.Title, raw.ChannelTitle, searchTerm, publishedAt, viewCount), nil
}
