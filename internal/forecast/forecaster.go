package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cinar/indicator"

	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/pkg/models"
)

// KeywordStore is the slice of the signal store the forecaster needs
type KeywordStore interface {
	GetKeywordHistories(ctx context.Context, since time.Time) ([]models.KeywordTrendPoint, error)
}

// Forecaster extrapolates per-keyword trend scores with a least-squares
// linear fit and reports a goodness-of-fit confidence.
type Forecaster struct {
	store           KeywordStore
	lookback        time.Duration
	minObservations int
	now             func() time.Time
}

// New creates new keyword trend forecaster
func New(store KeywordStore, cfg config.ForecastConfig) *Forecaster {
	return &Forecaster{
		store:           store,
		lookback:        cfg.Lookback,
		minObservations: cfg.MinObservations,
		now:             time.Now,
	}
}

// PredictKeywordTrends forecasts each keyword's trend score the given
// number of steps ahead. Keywords with too few observations are skipped.
// Output is sorted by keyword for determinism.
func (f *Forecaster) PredictKeywordTrends(ctx context.Context, days int) ([]models.KeywordForecast, error) {
	points, err := f.store.GetKeywordHistories(ctx, f.now().Add(-f.lookback))
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword histories: %w", err)
	}

	histories := groupByKeyword(points)

	forecasts := make([]models.KeywordForecast, 0, len(histories))
	for keyword, history := range histories {
		if len(history) < f.minObservations {
			continue
		}

		forecasts = append(forecasts, forecastKeyword(keyword, history, days))
	}

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].Keyword < forecasts[j].Keyword
	})

	return forecasts, nil
}

// groupByKeyword buckets points per keyword in chronological order
func groupByKeyword(points []models.KeywordTrendPoint) map[string][]models.KeywordTrendPoint {
	histories := make(map[string][]models.KeywordTrendPoint)
	for _, p := range points {
		histories[p.Keyword] = append(histories[p.Keyword], p)
	}
	for _, history := range histories {
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Timestamp.Before(history[j].Timestamp)
		})
	}
	return histories
}

// forecastKeyword fits score against observation index and extrapolates
func forecastKeyword(keyword string, history []models.KeywordTrendPoint, days int) models.KeywordForecast {
	n := len(history)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range history {
		xs[i] = float64(i)
		ys[i] = p.Score
	}

	m, b := indicator.LeastSquare(xs, ys)

	predicted := m*float64(n-1+days) + b
	if predicted < 0 {
		predicted = 0
	}
	if predicted > 100 {
		predicted = 100
	}

	current := ys[n-1]

	trend := models.TrendStable
	switch {
	case predicted > current*1.1:
		trend = models.TrendRising
	case predicted < current*0.9:
		trend = models.TrendFalling
	}

	confidence := rSquared(xs, ys, m, b) * 100
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	return models.KeywordForecast{
		Keyword:        keyword,
		CurrentScore:   current,
		PredictedScore: predicted,
		Confidence:     confidence,
		Trend:          trend,
	}
}

// rSquared is the fraction of variance explained by the linear fit
func rSquared(xs, ys []float64, m, b float64) float64 {
	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	var ssRes, ssTot float64
	for i, y := range ys {
		fit := m*xs[i] + b
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - mean) * (y - mean)
	}

	if ssTot == 0 {
		// Flat series: a perfect fit explains everything, anything else nothing
		if ssRes < 1e-9 {
			return 1
		}
		return 0
	}

	return 1 - ssRes/ssTot
}
