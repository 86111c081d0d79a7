package signals

import (
	"context"
	"time"

	"github.com/pulsefeed/trending/pkg/models"
)

// Store combines the content repository and the analytics counter
// repository into the single signal-store surface the engine consumes.
type Store struct {
	content   *Repository
	analytics *AnalyticsRepository
}

// NewStore creates new signal store
func NewStore(content *Repository, analytics *AnalyticsRepository) *Store {
	return &Store{content: content, analytics: analytics}
}

func (s *Store) GetRecentContent(ctx context.Context, since time.Time) ([]models.ContentItem, error) {
	return s.content.GetRecentContent(ctx, since)
}

func (s *Store) GetRawSignals(ctx context.Context, contentID string, contentType models.ContentType) (models.RawSignals, error) {
	return s.analytics.GetRawSignals(ctx, contentID, contentType)
}

func (s *Store) GetSocialMetrics(ctx context.Context, contentID string) (models.SocialMetrics, error) {
	return s.analytics.GetSocialMetrics(ctx, contentID)
}

func (s *Store) GetCategoryViewTotal(ctx context.Context, category string, since time.Time) (int64, error) {
	return s.analytics.GetCategoryViewTotal(ctx, category, since)
}

func (s *Store) GetSourceHistory(ctx context.Context, source string, limit int) ([]models.SourceStat, error) {
	return s.content.GetSourceHistory(ctx, source, limit)
}

func (s *Store) GetKeywordHistory(ctx context.Context, keyword string, since time.Time) ([]models.KeywordTrendPoint, error) {
	return s.content.GetKeywordHistory(ctx, keyword, since)
}

func (s *Store) GetKeywordHistories(ctx context.Context, since time.Time) ([]models.KeywordTrendPoint, error) {
	return s.content.GetKeywordHistories(ctx, since)
}

func (s *Store) GetLabeledTrainingSet(ctx context.Context, since time.Time) ([]models.TrainingExample, error) {
	return s.content.GetLabeledTrainingSet(ctx, since)
}
