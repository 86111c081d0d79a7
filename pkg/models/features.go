package models

// FeatureCount is the fixed width of the model input vector.
const FeatureCount = 12

// MLFeatures is the fixed feature tuple computed for one content item per
// scoring pass. The canonical ordering is the struct field order below and
// Vector is the only place that flattens it — extractor, predictor and
// trainer all share this type so weights can never drift out of alignment
// with features.
type MLFeatures struct {
	ViewCount          float64 `json:"view_count"`
	ViewVelocity       float64 `json:"view_velocity"`
	EngagementRate     float64 `json:"engagement_rate"`
	TimeOnPage         float64 `json:"time_on_page"`
	ShareCount         float64 `json:"share_count"`
	CommentCount       float64 `json:"comment_count"`
	RecencyScore       float64 `json:"recency_score"`
	RelevanceScore     float64 `json:"relevance_score"`
	SeasonalityScore   float64 `json:"seasonality_score"`
	CategoryPopularity float64 `json:"category_popularity"`
	AuthorCredibility  float64 `json:"author_credibility"`
	KeywordTrending    float64 `json:"keyword_trending"`
}

// Vector returns the features in canonical order
func (f MLFeatures) Vector() [FeatureCount]float64 {
	return [FeatureCount]float64{
		f.ViewCount,
		f.ViewVelocity,
		f.EngagementRate,
		f.TimeOnPage,
		f.ShareCount,
		f.CommentCount,
		f.RecencyScore,
		f.RelevanceScore,
		f.SeasonalityScore,
		f.CategoryPopularity,
		f.AuthorCredibility,
		f.KeywordTrending,
	}
}
