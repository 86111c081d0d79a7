package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
	"go.uber.org/zap"

	"github.com/pulsefeed/trending/pkg/logger"
)

const trainingLockName = "trending:training:lock"

// TrainingLock is a Redis distributed lock ensuring only one replica runs
// a model training cycle at a time. The TTL must exceed the longest
// expected training run; there is no renewal, a cycle that outlives the
// TTL simply loses exclusivity.
type TrainingLock struct {
	lockManager *redlock.RedLock
	ttl         time.Duration
	locked      bool
}

// NewTrainingLock creates new training lock
func NewTrainingLock(lockManager *redlock.RedLock, ttl time.Duration) *TrainingLock {
	return &TrainingLock{
		lockManager: lockManager,
		ttl:         ttl,
	}
}

// TryAcquire attempts to acquire the training lock.
// Returns false without error when another replica holds it.
func (l *TrainingLock) TryAcquire(ctx context.Context) (bool, error) {
	expiry, err := l.lockManager.Lock(ctx, trainingLockName, l.ttl)
	if err != nil {
		logger.Debug("training lock already held by another replica")
		return false, nil
	}

	if expiry <= 0 {
		return false, fmt.Errorf("failed to acquire training lock: invalid expiry %v", expiry)
	}

	l.locked = true

	logger.Info("training lock acquired",
		zap.Duration("ttl", l.ttl),
	)

	return true, nil
}

// Release releases the training lock
func (l *TrainingLock) Release(ctx context.Context) error {
	if !l.locked {
		return nil
	}

	if err := l.lockManager.UnLock(ctx, trainingLockName); err != nil {
		// Lock may have already expired naturally
		logger.Warn("failed to release training lock",
			zap.Error(err),
		)
	} else {
		logger.Info("training lock released")
	}

	l.locked = false
	return nil
}
