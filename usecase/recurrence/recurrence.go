// Package recurrence turns one-off compliance tasks into self-renewing ones.
// Rollover is an explicit operation, never a side effect of completion, so a
// finished cycle stays observable before the next one begins.
package recurrence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/pkg/dateutil"
	"github.com/startsmart/backend/repository"
)

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// MarkRecurring flags a task as recurring at the given cadence. It leaves
// dueDate and status alone.
func (uc *UseCase) MarkRecurring(ctx context.Context, ownerID, id string, frequency domain.RecurrenceFrequency) (*domain.ComplianceTask, error) {
	if !frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	task, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	task.IsRecurring = true
	task.Frequency = frequency

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Rollover advances a recurring task's due date by one cycle and resets it
// to pending for the next cycle. All preconditions are checked before any
// write.
func (uc *UseCase) Rollover(ctx context.Context, ownerID, id string) (*domain.ComplianceTask, error) {
	task, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !task.IsRecurring {
		return nil, domain.ErrNotRecurring
	}
	if task.DueDate == nil {
		return nil, domain.ErrMissingDueDate
	}
	if !task.Frequency.Valid() {
		return nil, domain.ErrInvalidFrequency
	}

	next := Advance(*task.DueDate, task.Frequency)
	task.DueDate = &next
	task.Status = domain.StatusPending
	task.CompletedAt = nil

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.logger.Info("task rolled over",
		zap.String("task_id", task.ID),
		zap.String("frequency", string(task.Frequency)),
		zap.Time("next_due", next))
	return task, nil
}

// Advance computes the next due date one cycle after the given one,
// calendar-aware: Jan 31 monthly steps to the last day of February.
func Advance(due time.Time, frequency domain.RecurrenceFrequency) time.Time {
	switch frequency {
	case domain.FrequencyMonthly:
		return dateutil.AddMonths(due, 1)
	case domain.FrequencyQuarterly:
		return dateutil.AddMonths(due, 3)
	case domain.FrequencyAnnual:
		return dateutil.AddYears(due, 1)
	}
	return dateutil.DateOnly(due)
}

func (uc *UseCase) owned(ctx context.Context, ownerID, id string) (*domain.ComplianceTask, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != ownerID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}
