package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"household-planner/internal/model"
	"household-planner/internal/repository"
)

// CloseDay freezes the live view of a day into snapshot records and returns
// how many were written. Closing an already closed day replaces its
// snapshot set with one taken from the current live state.
func (e *Engine) CloseDay(ctx context.Context, date model.Date) (int, error) {
	if _, err := model.ParseDate(string(date)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	e.closeMu.Lock()
	defer e.closeMu.Unlock()

	var created int
	var replaced int64
	err := e.store.WithTx(ctx, func(tx *repository.Store) error {
		live, err := e.liveView(ctx, tx, date)
		if err != nil {
			return err
		}

		replaced, err = tx.Occurrences.DeleteSnapshots(ctx, date)
		if err != nil {
			return err
		}

		for i := range live {
			frozen := live[i].Freeze()
			if err := tx.Occurrences.Create(ctx, &frozen); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.log.Infow("day closed", "date", date, "snapshots", created, "replaced", replaced)
	return created, nil
}

// SnapshotJob closes days, on a schedule or on demand.
type SnapshotJob struct {
	engine  *Engine
	clock   Clock
	log     *zap.SugaredLogger
	timeout time.Duration
}

func NewSnapshotJob(engine *Engine, clock Clock, log *zap.SugaredLogger) *SnapshotJob {
	return &SnapshotJob{engine: engine, clock: clock, log: log, timeout: 30 * time.Second}
}

// Run closes one day.
func (j *SnapshotJob) Run(ctx context.Context, date model.Date) (int, error) {
	count, err := j.engine.CloseDay(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("close day %s: %w", date, err)
	}
	return count, nil
}

// Schedule registers a daily close of the current day at the given HH:MM.
func (j *SnapshotJob) Schedule(scheduler *SchedulerService, at string) (cron.EntryID, error) {
	return scheduler.ScheduleDaily(at, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()

		date := j.clock.Today()
		if _, err := j.Run(ctx, date); err != nil && !errors.Is(err, context.Canceled) {
			j.log.Errorw("scheduled close failed", "date", date, "error", err)
		}
	})
}
