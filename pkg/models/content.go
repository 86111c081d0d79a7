package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContentType represents the kind of content being ranked
type ContentType string

const (
	ContentNews  ContentType = "news"
	ContentVideo ContentType = "video"
)

// ContentItem represents one ingested piece of content.
// The engine only reads these; ingestion owns them.
type ContentItem struct {
	ID          string      `db:"id" json:"id"`
	Type        ContentType `db:"content_type" json:"content_type"`
	Title       string      `db:"title" json:"title"`
	Body        string      `db:"body" json:"body"`
	Category    string      `db:"category" json:"category"`
	Tags        []string    `json:"tags"`
	Source      string      `db:"source" json:"source"`
	PublishedAt time.Time   `db:"published_at" json:"published_at"`
}

// RawSignals holds aggregated analytics counters for one content item.
// Dwell sums come back from the store as exact decimals and are only
// converted to float64 at feature-extraction time.
type RawSignals struct {
	Views       int64           `db:"views" json:"views"`
	UniqueViews int64           `db:"unique_views" json:"unique_views"`
	TotalDwell  decimal.Decimal `db:"total_dwell" json:"total_dwell"`
	AvgDwell    decimal.Decimal `db:"avg_dwell" json:"avg_dwell"`
	Shares      int64           `db:"shares" json:"shares"`
	Comments    int64           `db:"comments" json:"comments"`
}

// SocialMetrics holds share/comment counters for one content item
type SocialMetrics struct {
	Shares   int64 `db:"shares" json:"shares"`
	Comments int64 `db:"comments" json:"comments"`
}

// SourceStat is one historical data point for a content source,
// used to compute author credibility.
type SourceStat struct {
	Relevance float64 `db:"relevance" json:"relevance"`
	Views     int64   `db:"views" json:"views"`
}

// KeywordTrendPoint is one observation of a keyword's trend over time.
// History is append-only and written by ingestion; the engine only reads it.
type KeywordTrendPoint struct {
	Keyword   string    `db:"keyword" json:"keyword"`
	Timestamp time.Time `db:"observed_at" json:"observed_at"`
	Mentions  int64     `db:"mentions" json:"mentions"`
	Score     float64   `db:"score" json:"score"`
}
