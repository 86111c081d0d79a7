package models

import "time"

// PredictionModel holds the linear model applied to normalized features.
// A model is immutable once published: the predictor swaps the live model
// as a whole pointer, never field-by-field, so concurrent readers always
// see a fully-formed model.
type PredictionModel struct {
	Weights     [FeatureCount]float64 `json:"weights"`
	Bias        float64               `json:"bias"`
	Accuracy    float64               `json:"accuracy"`
	LastTrained time.Time             `json:"last_trained"`
}

// DefaultModel returns the cold-start model used before any training cycle
// has produced a better one. Weights favor velocity and recency, the two
// strongest hand-observed trending signals; accuracy starts at 0.5 so the
// first successful training run can replace it.
func DefaultModel() *PredictionModel {
	return &PredictionModel{
		Weights: [FeatureCount]float64{
			0.8, // view count
			1.2, // view velocity
			0.9, // engagement rate
			0.6, // time on page
			1.0, // shares
			0.7, // comments
			1.5, // recency
			0.8, // relevance
			0.4, // seasonality
			0.6, // category popularity
			0.5, // author credibility
			0.7, // keyword trending
		},
		Bias:     -3.5,
		Accuracy: 0.5,
	}
}
