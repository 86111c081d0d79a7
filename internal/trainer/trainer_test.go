package trainer

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/internal/predictor"
	"github.com/pulsefeed/trending/pkg/models"
)

type fakeTrainingStore struct {
	examples []models.TrainingExample
	err      error
}

func (f *fakeTrainingStore) GetLabeledTrainingSet(_ context.Context, _ time.Time) ([]models.TrainingExample, error) {
	return f.examples, f.err
}

type fakeModelStore struct {
	saved []*models.PredictionModel
	err   error
}

func (f *fakeModelStore) Save(_ context.Context, m *models.PredictionModel) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, m)
	return nil
}

func testConfig() config.TrainerConfig {
	return config.TrainerConfig{
		Interval:     6 * time.Hour,
		Lookback:     30 * 24 * time.Hour,
		MinExamples:  100,
		LearningRate: 0.01,
		MaxEpochs:    200,
		MSEThreshold: 0.0001,
	}
}

// syntheticExamples builds labeled records whose outcome loosely tracks
// velocity and recency, enough signal for gradient descent to latch onto
func syntheticExamples(n int, rng *rand.Rand) []models.TrainingExample {
	examples := make([]models.TrainingExample, n)
	for i := range examples {
		velocity := rng.Float64() * 800
		recency := rng.Float64() * 100
		examples[i] = models.TrainingExample{
			Features: models.MLFeatures{
				ViewCount:      rng.Float64() * 8000,
				ViewVelocity:   velocity,
				EngagementRate: rng.Float64() * 100,
				RecencyScore:   recency,
				RelevanceScore: 50,
			},
			Actual: clampScore(velocity/800*60 + recency*0.3 + rng.Float64()*10),
		}
	}
	return examples
}

func clampScore(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

func TestTrainer_InsufficientDataIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	live := models.DefaultModel()
	pred := predictor.New(live)
	modelStore := &fakeModelStore{}
	tr := New(&fakeTrainingStore{examples: syntheticExamples(99, rng)}, modelStore, pred, testConfig())

	if err := tr.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle should be a clean no-op, got %v", err)
	}

	if pred.Current() != live {
		t.Error("live model should be untouched with < 100 examples")
	}
	if !pred.Current().LastTrained.Equal(live.LastTrained) {
		t.Error("LastTrained should be unchanged")
	}
	if len(modelStore.saved) != 0 {
		t.Error("nothing should be persisted on a skipped cycle")
	}
}

func TestTrainer_WorseCandidateDiscarded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	// A live model claiming near-perfect accuracy cannot be beaten by a
	// candidate evaluated on noisy data
	live := models.DefaultModel()
	live.Accuracy = 0.999
	pred := predictor.New(live)
	modelStore := &fakeModelStore{}
	tr := New(&fakeTrainingStore{examples: syntheticExamples(150, rng)}, modelStore, pred, testConfig())

	if err := tr.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	after := pred.Current()
	if after != live {
		t.Error("live model should be retained when the candidate is not strictly better")
	}
	if after.Weights != live.Weights {
		t.Error("live model weights must be unchanged after a rejected cycle")
	}
	if len(modelStore.saved) != 0 {
		t.Error("rejected candidates must not be persisted")
	}
}

func TestTrainer_BetterCandidateSwappedAndPersisted(t *testing.T) {
	rng := rand.New(rand.NewSource(13))

	// Accuracy 0 guarantees any evaluated candidate wins: predictions live
	// in (0,100) so MAE < 100 and accuracy > 0
	live := models.DefaultModel()
	live.Accuracy = 0
	pred := predictor.New(live)
	modelStore := &fakeModelStore{}
	tr := New(&fakeTrainingStore{examples: syntheticExamples(200, rng)}, modelStore, pred, testConfig())

	before := time.Now()
	if err := tr.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	after := pred.Current()
	if after == live {
		t.Fatal("live model should have been replaced")
	}
	if after.Accuracy <= 0 {
		t.Errorf("candidate accuracy should be positive, got %.4f", after.Accuracy)
	}
	if after.LastTrained.Before(before) {
		t.Error("accepted model should carry the cycle timestamp")
	}

	if len(modelStore.saved) != 1 {
		t.Fatalf("accepted model should be persisted once, got %d saves", len(modelStore.saved))
	}
	if modelStore.saved[0] != after {
		t.Error("persisted model should be the live model")
	}
}

func TestTrainer_StoreErrorAbortsCycle(t *testing.T) {
	live := models.DefaultModel()
	pred := predictor.New(live)
	tr := New(&fakeTrainingStore{err: errors.New("connection reset")}, &fakeModelStore{}, pred, testConfig())

	if err := tr.RunCycle(context.Background()); err == nil {
		t.Fatal("RunCycle should surface the store error")
	}

	if pred.Current() != live {
		t.Error("a failed cycle must never touch the live model")
	}
}

func TestTrainer_PersistFailureKeepsSwappedModel(t *testing.T) {
	rng := rand.New(rand.NewSource(17))

	live := models.DefaultModel()
	live.Accuracy = 0
	pred := predictor.New(live)
	tr := New(
		&fakeTrainingStore{examples: syntheticExamples(150, rng)},
		&fakeModelStore{err: errors.New("disk full")},
		pred,
		testConfig(),
	)

	if err := tr.RunCycle(context.Background()); err == nil {
		t.Fatal("RunCycle should surface the persistence error")
	}

	// Serving still benefits from the better model even if it will not
	// survive a restart
	if pred.Current() == live {
		t.Error("accepted model should stay live despite persistence failure")
	}
}

func TestTrainer_FitReducesError(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	examples := syntheticExamples(300, rng)

	cfg := testConfig()
	cfg.MaxEpochs = 500
	tr := New(&fakeTrainingStore{examples: examples}, &fakeModelStore{}, predictor.New(models.DefaultModel()), cfg)

	inputs := make([][models.FeatureCount]float64, len(examples))
	targets := make([]float64, len(examples))
	for i, ex := range examples {
		inputs[i] = predictor.Normalize(ex.Features)
		targets[i] = ex.Actual / 100
	}

	start := models.DefaultModel()
	weights, bias, epochs := tr.fit(start.Weights, start.Bias, inputs, targets)

	if epochs == 0 {
		t.Fatal("fit should run at least one epoch")
	}

	fitted := &models.PredictionModel{Weights: weights, Bias: bias}
	if evaluate(fitted, examples) < evaluate(start, examples) {
		t.Errorf("fitting should not make accuracy worse: fitted=%.4f start=%.4f",
			evaluate(fitted, examples), evaluate(start, examples))
	}
}
