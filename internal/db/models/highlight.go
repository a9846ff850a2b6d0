package models

import "time"

// Highlight represents one persisted highlight video row. There is exactly
// one row per VideoID regardless of how many search terms rediscover it.
type Highlight struct {
	VideoID       string    `db:"video_id"`
	Title         string    `db:"title"`
	ChannelName   string    `db:"channel_name"`
	PublishedAt   time.Time `db:"published_at"`
	ViewCount     int64     `db:"view_count"`
	SearchTerm    string    `db:"search_term"`
	FirstSeenAt   time.Time `db:"first_seen_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// NewHighlight creates a Highlight with discovery timestamps set to now.
// SearchTerm records first-discovery attribution; the store keeps the
// original value on later upserts.
func NewHighlight(videoID, title, channelName, searchTerm string, publishedAt time.Time, viewCount int64) *Highlight {
	now := time.Now().UTC()
	return &Highlight{
		VideoID:       videoID,
		Title:         title,
		ChannelName:   channelName,
		PublishedAt:   publishedAt,
		ViewCount:     viewCount,
		SearchTerm:    searchTerm,
		FirstSeenAt:   now,
		LastUpdatedAt: now,
	}
}
