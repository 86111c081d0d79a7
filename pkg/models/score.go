package models

import "time"

// ScoreFactors is the per-item breakdown behind a trending score
type ScoreFactors struct {
	Views      float64 `json:"views"`
	Velocity   float64 `json:"velocity"`
	Engagement float64 `json:"engagement"`
	Recency    float64 `json:"recency"`
	Relevance  float64 `json:"relevance"`
	Social     float64 `json:"social"`
	Predicted  float64 `json:"predicted"`
}

// TrendingScore is one ranked scoring result. Recomputed every scoring
// pass; only ever persisted into the short-TTL cache.
type TrendingScore struct {
	ContentID   string       `json:"content_id"`
	ContentType ContentType  `json:"content_type"`
	Score       float64      `json:"score"`
	Factors     ScoreFactors `json:"factors"`
	Rank        int          `json:"rank"`
	Category    string       `json:"category"`
	ComputedAt  time.Time    `json:"computed_at"`
}

// ViralContent flags one item exhibiting rapid-growth signal patterns
type ViralContent struct {
	ContentID   string      `json:"content_id"`
	ContentType ContentType `json:"content_type"`
	ViralScore  float64     `json:"viral_score"`
	Factors     []string    `json:"factors"`
}

// TrendDirection classifies a keyword forecast
type TrendDirection string

const (
	TrendRising  TrendDirection = "rising"
	TrendFalling TrendDirection = "falling"
	TrendStable  TrendDirection = "stable"
)

// KeywordForecast is the extrapolated trend for one keyword
type KeywordForecast struct {
	Keyword        string         `json:"keyword"`
	CurrentScore   float64        `json:"current_score"`
	PredictedScore float64        `json:"predicted_score"`
	Confidence     float64        `json:"confidence"`
	Trend          TrendDirection `json:"trend"`
}

// TrainingExample is one labeled historical record: the features extracted
// at scoring time plus the trending outcome that actually materialized.
type TrainingExample struct {
	Features MLFeatures `json:"features"`
	Actual   float64    `json:"actual"`
}
