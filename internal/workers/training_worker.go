package workers

import (
	"context"

	"github.com/pulsefeed/trending/internal/trainer"
	"github.com/pulsefeed/trending/pkg/logger"
)

// TrainingLock keeps training single-writer across replicas
type TrainingLock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// TrainingWorker runs model training cycles on a schedule
type TrainingWorker struct {
	trainer *trainer.Trainer
	lock    TrainingLock
}

// NewTrainingWorker creates new training worker. The lock may be nil in
// single-replica deployments.
func NewTrainingWorker(t *trainer.Trainer, lock TrainingLock) *TrainingWorker {
	return &TrainingWorker{trainer: t, lock: lock}
}

// Name returns worker name
func (w *TrainingWorker) Name() string {
	return "model_training"
}

// Run executes one training cycle.
// Called periodically by pkg/worker.PeriodicWorker.
func (w *TrainingWorker) Run(ctx context.Context) error {
	if w.lock != nil {
		acquired, err := w.lock.TryAcquire(ctx)
		if err != nil {
			return err
		}
		if !acquired {
			logger.Info("training lock held elsewhere, skipping cycle")
			return nil
		}
		defer w.lock.Release(ctx)
	}

	return w.trainer.RunCycle(ctx)
}
