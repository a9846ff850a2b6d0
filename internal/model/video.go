package model

// CandidateVideo is a video identifier surfaced by a search query. It carries
// only what the search endpoint returns; statistics come from a separate
// batch lookup.
type CandidateVideo struct {
	VideoID   string
	TitleHint string
}

// RawStats holds the loosely-typed per-video fields returned by the videos
// endpoint, before validation. PublishedAt and ViewCount stay as strings so
// the trust-boundary parsing happens in exactly one place (normalize).
type RawStats struct {
	VideoID      string
	Title        string
	ChannelTitle string
	PublishedAt  string
	ViewCount    string
}
