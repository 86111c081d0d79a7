package trending

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/internal/features"
	"github.com/pulsefeed/trending/internal/predictor"
	"github.com/pulsefeed/trending/internal/viral"
	"github.com/pulsefeed/trending/pkg/logger"
	"github.com/pulsefeed/trending/pkg/models"
)

const cacheKey = "trending:scores"

// ContentStore is the slice of the signal store the engine needs
type ContentStore interface {
	GetRecentContent(ctx context.Context, since time.Time) ([]models.ContentItem, error)
	GetRawSignals(ctx context.Context, contentID string, contentType models.ContentType) (models.RawSignals, error)
	GetSocialMetrics(ctx context.Context, contentID string) (models.SocialMetrics, error)
}

// Cache is a generic key/value cache with expiry
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Engine produces the ranked trending list for recent content. Results are
// cached under a fixed key with a short TTL: a hit returns the previous
// list unchanged (stale ranks included), a miss recomputes synchronously.
// Duplicate concurrent misses may both recompute; recomputation is
// deterministic for the same inputs, so last write wins.
type Engine struct {
	store     ContentStore
	cache     Cache
	extractor *features.Extractor
	predictor *predictor.Predictor
	detector  *viral.Detector

	lookback time.Duration
	cacheTTL time.Duration
	now      func() time.Time
}

// NewEngine creates new trending engine
func NewEngine(
	store ContentStore,
	cache Cache,
	extractor *features.Extractor,
	pred *predictor.Predictor,
	cfg config.TrendingConfig,
) *Engine {
	return &Engine{
		store:     store,
		cache:     cache,
		extractor: extractor,
		predictor: pred,
		detector:  viral.NewDetector(),
		lookback:  cfg.Lookback,
		cacheTTL:  cfg.CacheTTL,
		now:       time.Now,
	}
}

// GetTrendingScores returns the ranked trending list, serving from cache
// while the previous result is unexpired. Store failures during a
// recompute propagate to the caller: a wrong ranking is worse than a
// visible failure.
func (e *Engine) GetTrendingScores(ctx context.Context) ([]models.TrendingScore, error) {
	var cached []models.TrendingScore
	hit, err := e.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		// A broken cache degrades to recompute-every-call
		logger.Warn("trending cache read failed", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	scores, err := e.compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Set(ctx, cacheKey, scores, e.cacheTTL); err != nil {
		logger.Warn("trending cache write failed", zap.Error(err))
	}

	return scores, nil
}

// GetTopContent returns the first limit entries of the ranked list
func (e *Engine) GetTopContent(ctx context.Context, limit int) ([]models.TrendingScore, error) {
	scores, err := e.GetTrendingScores(ctx)
	if err != nil {
		return nil, err
	}

	if limit < 0 {
		limit = 0
	}
	if limit > len(scores) {
		limit = len(scores)
	}

	return scores[:limit], nil
}

// GetViralContent runs viral detection over the current ranked list
func (e *Engine) GetViralContent(ctx context.Context) ([]models.ViralContent, error) {
	scores, err := e.GetTrendingScores(ctx)
	if err != nil {
		return nil, err
	}

	return e.detector.Detect(scores), nil
}

// compute scores and ranks all content in the lookback window
func (e *Engine) compute(ctx context.Context) ([]models.TrendingScore, error) {
	now := e.now()

	items, err := e.store.GetRecentContent(ctx, now.Add(-e.lookback))
	if err != nil {
		return nil, fmt.Errorf("failed to load recent content: %w", err)
	}

	scores := make([]models.TrendingScore, 0, len(items))
	for _, item := range items {
		sig, err := e.store.GetRawSignals(ctx, item.ID, item.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to load signals for %s: %w", item.ID, err)
		}

		social, err := e.store.GetSocialMetrics(ctx, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load social metrics for %s: %w", item.ID, err)
		}

		feats := e.extractor.Extract(ctx, item, sig, now)
		score := e.predictor.Score(feats)

		scores = append(scores, models.TrendingScore{
			ContentID:   item.ID,
			ContentType: item.Type,
			Score:       score,
			Factors: models.ScoreFactors{
				Views:      feats.ViewCount,
				Velocity:   feats.ViewVelocity,
				Engagement: feats.EngagementRate,
				Recency:    feats.RecencyScore,
				Relevance:  feats.RelevanceScore,
				Social:     float64(social.Shares + social.Comments),
				Predicted:  score,
			},
			Category:   item.Category,
			ComputedAt: now,
		})
	}

	// Stable sort keeps original iteration order for tied scores
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	for i := range scores {
		scores[i].Rank = i + 1
	}

	logger.Debug("trending scores computed",
		zap.Int("items", len(scores)),
	)

	return scores, nil
}
