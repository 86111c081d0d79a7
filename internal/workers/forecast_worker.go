package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/internal/forecast"
	"github.com/pulsefeed/trending/pkg/logger"
	"github.com/pulsefeed/trending/pkg/models"
)

// ForecastWorker periodically forecasts keyword trends and logs the
// movers, giving editorial an early-warning signal in the logs even when
// nobody queries the forecast endpoint.
type ForecastWorker struct {
	forecaster  *forecast.Forecaster
	horizonDays int
}

// NewForecastWorker creates new forecast worker
func NewForecastWorker(f *forecast.Forecaster, horizonDays int) *ForecastWorker {
	return &ForecastWorker{forecaster: f, horizonDays: horizonDays}
}

// Name returns worker name
func (w *ForecastWorker) Name() string {
	return "keyword_forecast"
}

// Run computes one forecast pass
func (w *ForecastWorker) Run(ctx context.Context) error {
	forecasts, err := w.forecaster.PredictKeywordTrends(ctx, w.horizonDays)
	if err != nil {
		return err
	}

	rising, falling := 0, 0
	for _, f := range forecasts {
		switch f.Trend {
		case models.TrendRising:
			rising++
		case models.TrendFalling:
			falling++
		}
	}

	logger.Info("keyword trends forecast",
		zap.Int("keywords", len(forecasts)),
		zap.Int("rising", rising),
		zap.Int("falling", falling),
		zap.Int("horizon_days", w.horizonDays),
	)

	return nil
}
