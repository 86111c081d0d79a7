package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/internal/trending"
	"github.com/pulsefeed/trending/pkg/logger"
)

// RefreshWorker keeps the trending cache warm so request handlers mostly
// hit a fresh entry instead of paying for a synchronous recompute.
type RefreshWorker struct {
	engine *trending.Engine
}

// NewRefreshWorker creates new trending refresh worker
func NewRefreshWorker(engine *trending.Engine) *RefreshWorker {
	return &RefreshWorker{engine: engine}
}

// Name returns worker name
func (w *RefreshWorker) Name() string {
	return "trending_refresh"
}

// Run recomputes (or confirms) the ranked list and logs viral outliers
func (w *RefreshWorker) Run(ctx context.Context) error {
	scores, err := w.engine.GetTrendingScores(ctx)
	if err != nil {
		return err
	}

	viral, err := w.engine.GetViralContent(ctx)
	if err != nil {
		return err
	}

	top := ""
	if len(scores) > 0 {
		top = scores[0].ContentID
	}

	logger.Info("trending list refreshed",
		zap.Int("items", len(scores)),
		zap.Int("viral", len(viral)),
		zap.String("top_content", top),
	)

	return nil
}
