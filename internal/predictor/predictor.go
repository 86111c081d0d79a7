package predictor

import (
	"math"
	"sync/atomic"

	"github.com/pulsefeed/trending/pkg/models"
)

// featureScales are the fixed min-max upper bounds per canonical feature
// position. Values beyond the bound are clamped, not rescaled, which keeps
// normalization stable across training runs.
var featureScales = [models.FeatureCount]float64{
	10000, // view count
	1000,  // view velocity (views/hour)
	100,   // engagement rate
	600,   // time on page (seconds)
	500,   // shares
	200,   // comments
	100,   // recency score
	100,   // relevance score
	100,   // seasonality score
	100,   // category popularity
	100,   // author credibility
	100,   // keyword trending
}

// Normalize clamps each feature into [0, scale] and rescales to [0, 1]
func Normalize(f models.MLFeatures) [models.FeatureCount]float64 {
	v := f.Vector()
	for i := range v {
		if v[i] < 0 {
			v[i] = 0
		}
		if v[i] > featureScales[i] {
			v[i] = featureScales[i]
		}
		v[i] /= featureScales[i]
	}
	return v
}

// Sigmoid is the logistic activation
func Sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Score applies a model to one feature tuple. The sigmoid bounds the
// output to [0,100] regardless of weight magnitude.
func Score(m *models.PredictionModel, f models.MLFeatures) float64 {
	v := Normalize(f)

	z := m.Bias
	for i := range v {
		z += m.Weights[i] * v[i]
	}

	return 100 * Sigmoid(z)
}

// Predictor owns the live model. The model is read and replaced through a
// single atomic pointer so concurrent scorers never observe a partially
// written model; the trainer is the only writer.
type Predictor struct {
	live atomic.Pointer[models.PredictionModel]
}

// New creates new predictor with an initial model
func New(initial *models.PredictionModel) *Predictor {
	p := &Predictor{}
	p.live.Store(initial)
	return p
}

// Current returns the live model
func (p *Predictor) Current() *models.PredictionModel {
	return p.live.Load()
}

// Swap replaces the live model wholesale
func (p *Predictor) Swap(m *models.PredictionModel) {
	p.live.Store(m)
}

// Score applies the live model to one feature tuple
func (p *Predictor) Score(f models.MLFeatures) float64 {
	return Score(p.Current(), f)
}
