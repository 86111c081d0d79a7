package modelstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pulsefeed/trending/pkg/logger"
	"github.com/pulsefeed/trending/pkg/models"
)

// Repository persists accepted prediction models for restart recovery.
// Models are append-only; Load returns the most recently accepted one.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new model repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Save persists an accepted model
func (r *Repository) Save(ctx context.Context, model *models.PredictionModel) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prediction_models (weights, bias, accuracy, trained_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`,
		pq.Array(model.Weights[:]),
		model.Bias,
		model.Accuracy,
		model.LastTrained,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}

	logger.Info("prediction model persisted",
		zap.Float64("accuracy", model.Accuracy),
		zap.Time("trained_at", model.LastTrained),
	)

	return nil
}

// Load returns the most recently persisted model, or nil when none exists
func (r *Repository) Load(ctx context.Context) (*models.PredictionModel, error) {
	row := r.db.QueryRowxContext(ctx, `
		SELECT weights, bias, accuracy, trained_at
		FROM prediction_models
		ORDER BY created_at DESC
		LIMIT 1
	`)

	var weights pq.Float64Array
	var model models.PredictionModel
	if err := row.Scan(&weights, &model.Bias, &model.Accuracy, &model.LastTrained); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	if len(weights) != models.FeatureCount {
		return nil, fmt.Errorf("persisted model has %d weights, expected %d", len(weights), models.FeatureCount)
	}
	copy(model.Weights[:], weights)

	return &model, nil
}
