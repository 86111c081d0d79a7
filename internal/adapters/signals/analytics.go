package signals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/pulsefeed/trending/pkg/models"
)

// AnalyticsRepository reads high-volume view/dwell/social counters. It runs
// over either ClickHouse or Postgres: queries are written with ? bindvars
// and rebound per driver, so main can wire ClickHouse with a Postgres
// fallback.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates new analytics repository
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// GetRawSignals returns aggregated counters for one content item.
// A content item with no analytics rows yields zero signals, not an error.
func (r *AnalyticsRepository) GetRawSignals(ctx context.Context, contentID string, contentType models.ContentType) (models.RawSignals, error) {
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(views), 0)         AS views,
			COALESCE(SUM(unique_views), 0)  AS unique_views,
			COALESCE(SUM(dwell_seconds), 0) AS total_dwell,
			COALESCE(SUM(shares), 0)        AS shares,
			COALESCE(SUM(comments), 0)      AS comments
		FROM content_signals
		WHERE content_id = ? AND content_type = ?
	`)

	var sig models.RawSignals
	row := r.db.QueryRowxContext(ctx, query, contentID, string(contentType))
	if err := row.Scan(&sig.Views, &sig.UniqueViews, &sig.TotalDwell, &sig.Shares, &sig.Comments); err != nil {
		if err == sql.ErrNoRows {
			return models.RawSignals{}, nil
		}
		return models.RawSignals{}, fmt.Errorf("failed to query raw signals: %w", err)
	}

	if sig.Views > 0 {
		sig.AvgDwell = sig.TotalDwell.Div(decimal.NewFromInt(sig.Views))
	}

	return sig, nil
}

// GetSocialMetrics returns share/comment counters for one content item
func (r *AnalyticsRepository) GetSocialMetrics(ctx context.Context, contentID string) (models.SocialMetrics, error) {
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(shares), 0)   AS shares,
			COALESCE(SUM(comments), 0) AS comments
		FROM content_signals
		WHERE content_id = ?
	`)

	var social models.SocialMetrics
	row := r.db.QueryRowxContext(ctx, query, contentID)
	if err := row.Scan(&social.Shares, &social.Comments); err != nil {
		if err == sql.ErrNoRows {
			return models.SocialMetrics{}, nil
		}
		return models.SocialMetrics{}, fmt.Errorf("failed to query social metrics: %w", err)
	}

	return social, nil
}

// GetCategoryViewTotal returns the category's total view count since the
// given timestamp.
func (r *AnalyticsRepository) GetCategoryViewTotal(ctx context.Context, category string, since time.Time) (int64, error) {
	query := r.db.Rebind(`
		SELECT COALESCE(SUM(views), 0)
		FROM content_signals
		WHERE category = ? AND bucket_date >= ?
	`)

	var total int64
	row := r.db.QueryRowxContext(ctx, query, category, since)
	if err := row.Scan(&total); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query category views: %w", err)
	}

	return total, nil
}
