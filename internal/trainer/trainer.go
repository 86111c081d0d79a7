package trainer

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/internal/predictor"
	"github.com/pulsefeed/trending/pkg/logger"
	"github.com/pulsefeed/trending/pkg/models"
)

// TrainingStore supplies labeled historical outcomes
type TrainingStore interface {
	GetLabeledTrainingSet(ctx context.Context, since time.Time) ([]models.TrainingExample, error)
}

// ModelStore persists accepted models for restart recovery
type ModelStore interface {
	Save(ctx context.Context, model *models.PredictionModel) error
}

// Trainer periodically re-fits model weights from historical outcomes via
// batch gradient descent and swaps the candidate in only when it beats the
// live model's accuracy. A failed cycle never touches the live model.
type Trainer struct {
	store      TrainingStore
	modelStore ModelStore
	predictor  *predictor.Predictor
	cfg        config.TrainerConfig
	now        func() time.Time
}

// New creates new model trainer
func New(store TrainingStore, modelStore ModelStore, pred *predictor.Predictor, cfg config.TrainerConfig) *Trainer {
	return &Trainer{
		store:      store,
		modelStore: modelStore,
		predictor:  pred,
		cfg:        cfg,
		now:        time.Now,
	}
}

// RunCycle executes one training cycle
func (t *Trainer) RunCycle(ctx context.Context) error {
	started := t.now()

	examples, err := t.store.GetLabeledTrainingSet(ctx, started.Add(-t.cfg.Lookback))
	if err != nil {
		return fmt.Errorf("failed to load training set: %w", err)
	}

	// Too little data is a no-op, not an error
	if len(examples) < t.cfg.MinExamples {
		logger.Info("insufficient training data, skipping cycle",
			zap.Int("examples", len(examples)),
			zap.Int("required", t.cfg.MinExamples),
		)
		return nil
	}

	inputs := make([][models.FeatureCount]float64, len(examples))
	targets := make([]float64, len(examples))
	for i, ex := range examples {
		inputs[i] = predictor.Normalize(ex.Features)
		targets[i] = clampUnit(ex.Actual / 100)
	}

	live := t.predictor.Current()

	// Warm start from the live weights
	weights, bias, epochs := t.fit(live.Weights, live.Bias, inputs, targets)

	candidate := &models.PredictionModel{
		Weights:     weights,
		Bias:        bias,
		LastTrained: started,
	}
	candidate.Accuracy = evaluate(candidate, examples)

	logger.Info("candidate model trained",
		zap.Int("examples", len(examples)),
		zap.Int("epochs", epochs),
		zap.Float64("candidate_accuracy", candidate.Accuracy),
		zap.Float64("live_accuracy", live.Accuracy),
		zap.Duration("elapsed", t.now().Sub(started)),
	)

	// Strictly-better gate; ties keep the live model
	if candidate.Accuracy <= live.Accuracy {
		logger.Info("candidate model discarded, live model retained")
		return nil
	}

	t.predictor.Swap(candidate)

	if err := t.modelStore.Save(ctx, candidate); err != nil {
		// The swap already happened; serving keeps the better model even
		// if it won't survive a restart
		return fmt.Errorf("failed to persist accepted model: %w", err)
	}

	logger.Info("live model replaced",
		zap.Float64("accuracy", candidate.Accuracy),
	)

	return nil
}

// fit runs batch gradient descent through the sigmoid on [0,1] targets.
// Returns the fitted weights, bias and the number of epochs run.
func (t *Trainer) fit(
	weights [models.FeatureCount]float64,
	bias float64,
	inputs [][models.FeatureCount]float64,
	targets []float64,
) ([models.FeatureCount]float64, float64, int) {
	n := float64(len(inputs))
	epochs := 0

	for epoch := 0; epoch < t.cfg.MaxEpochs; epoch++ {
		epochs++

		var gradW [models.FeatureCount]float64
		var gradB, sse float64

		for i, x := range inputs {
			z := bias
			for j := range x {
				z += weights[j] * x[j]
			}
			p := predictor.Sigmoid(z)

			diff := p - targets[i]
			sse += diff * diff

			g := diff * p * (1 - p)
			for j := range x {
				gradW[j] += g * x[j]
			}
			gradB += g
		}

		for j := range weights {
			weights[j] -= t.cfg.LearningRate * gradW[j] / n
		}
		bias -= t.cfg.LearningRate * gradB / n

		if sse/n < t.cfg.MSEThreshold {
			break
		}
	}

	return weights, bias, epochs
}

// evaluate computes accuracy as max(0, 1 - MAE/100) over the training set.
// Evaluating on the training set itself overstates accuracy; kept as the
// documented acceptance metric.
func evaluate(m *models.PredictionModel, examples []models.TrainingExample) float64 {
	var mae float64
	for _, ex := range examples {
		pred := predictor.Score(m, ex.Features)
		mae += math.Abs(pred - ex.Actual)
	}
	mae /= float64(len(examples))

	acc := 1 - mae/100
	if acc < 0 {
		return 0
	}
	return acc
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
