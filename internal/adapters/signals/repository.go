package signals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pulsefeed/trending/pkg/models"
)

// Repository reads content metadata, source history, keyword trends and
// labeled training outcomes from Postgres. All tables are owned by the
// ingestion/labeling side; this engine only queries them.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new content repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetRecentContent returns content published since the given timestamp,
// newest first.
func (r *Repository) GetRecentContent(ctx context.Context, since time.Time) ([]models.ContentItem, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, content_type, title, body, category, tags, source, published_at
		FROM content_items
		WHERE published_at >= $1
		ORDER BY published_at DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var item models.ContentItem
		var tags pq.StringArray
		if err := rows.Scan(
			&item.ID,
			&item.Type,
			&item.Title,
			&item.Body,
			&item.Category,
			&tags,
			&item.Source,
			&item.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		item.Tags = []string(tags)
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetSourceHistory returns the most recent stats for a content source,
// newest first, at most limit rows. No history yields an empty slice.
func (r *Repository) GetSourceHistory(ctx context.Context, source string, limit int) ([]models.SourceStat, error) {
	var stats []models.SourceStat
	err := r.db.SelectContext(ctx, &stats, `
		SELECT relevance, views
		FROM source_history
		WHERE source = $1
		ORDER BY published_at DESC
		LIMIT $2
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query source history: %w", err)
	}

	return stats, nil
}

// GetKeywordHistory returns trend points for one keyword since the given
// timestamp, oldest first.
func (r *Repository) GetKeywordHistory(ctx context.Context, keyword string, since time.Time) ([]models.KeywordTrendPoint, error) {
	var points []models.KeywordTrendPoint
	err := r.db.SelectContext(ctx, &points, `
		SELECT keyword, observed_at, mentions, score
		FROM keyword_trends
		WHERE keyword = $1 AND observed_at >= $2
		ORDER BY observed_at ASC
	`, keyword, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword history: %w", err)
	}

	return points, nil
}

// GetKeywordHistories returns trend points for all keywords since the
// given timestamp, ordered by keyword then time.
func (r *Repository) GetKeywordHistories(ctx context.Context, since time.Time) ([]models.KeywordTrendPoint, error) {
	var points []models.KeywordTrendPoint
	err := r.db.SelectContext(ctx, &points, `
		SELECT keyword, observed_at, mentions, score
		FROM keyword_trends
		WHERE observed_at >= $1
		ORDER BY keyword ASC, observed_at ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword histories: %w", err)
	}

	return points, nil
}

// trainingRow maps the flat training_outcomes columns
type trainingRow struct {
	ViewCount          float64 `db:"view_count"`
	ViewVelocity       float64 `db:"view_velocity"`
	EngagementRate     float64 `db:"engagement_rate"`
	TimeOnPage         float64 `db:"time_on_page"`
	ShareCount         float64 `db:"share_count"`
	CommentCount       float64 `db:"comment_count"`
	RecencyScore       float64 `db:"recency_score"`
	RelevanceScore     float64 `db:"relevance_score"`
	SeasonalityScore   float64 `db:"seasonality_score"`
	CategoryPopularity float64 `db:"category_popularity"`
	AuthorCredibility  float64 `db:"author_credibility"`
	KeywordTrending    float64 `db:"keyword_trending"`
	ActualScore        float64 `db:"actual_score"`
}

// GetLabeledTrainingSet returns historical records carrying both the
// extracted features and the trending outcome that actually materialized.
func (r *Repository) GetLabeledTrainingSet(ctx context.Context, since time.Time) ([]models.TrainingExample, error) {
	var rows []trainingRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT view_count, view_velocity, engagement_rate, time_on_page,
		       share_count, comment_count, recency_score, relevance_score,
		       seasonality_score, category_popularity, author_credibility,
		       keyword_trending, actual_score
		FROM training_outcomes
		WHERE recorded_at >= $1
		ORDER BY recorded_at ASC
	`, since)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query training set: %w", err)
	}

	examples := make([]models.TrainingExample, 0, len(rows))
	for _, row := range rows {
		examples = append(examples, models.TrainingExample{
			Features: models.MLFeatures{
				ViewCount:          row.ViewCount,
				ViewVelocity:       row.ViewVelocity,
				EngagementRate:     row.EngagementRate,
				TimeOnPage:         row.TimeOnPage,
				ShareCount:         row.ShareCount,
				CommentCount:       row.CommentCount,
				RecencyScore:       row.RecencyScore,
				RelevanceScore:     row.RelevanceScore,
				SeasonalityScore:   row.SeasonalityScore,
				CategoryPopularity: row.CategoryPopularity,
				AuthorCredibility:  row.AuthorCredibility,
				KeywordTrending:    row.KeywordTrending,
			},
			Actual: row.ActualScore,
		})
	}

	return examples, nil
}
