// Package task implements the compliance task lifecycle: validated status
// transitions, the completed-at bookkeeping, and owner-scoped CRUD. It knows
// nothing about recurrence; rollover lives in the recurrence package.
package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
	"github.com/startsmart/backend/usecase"
)

type UseCase struct {
	tasks  repository.TaskRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
	now    func() time.Time
}

func New(tasks repository.TaskRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		buffer: buffer,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Tests use it to pin "now".
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	if now != nil {
		uc.now = now
	}
	return uc
}

// Patch carries the mutable fields of a partial task update. Nil fields are
// left untouched.
type Patch struct {
	TaskName    *string
	Description *string
	Category    *domain.TaskCategory
	Priority    *domain.TaskPriority
	Status      *domain.TaskStatus
	DueDate     *time.Time
}

// ListTasks returns the owner's tasks with the derived overdue flag set.
func (uc *UseCase) ListTasks(ctx context.Context, ownerID string, filter repository.TaskFilter) ([]domain.ComplianceTask, error) {
	filter.UserID = ownerID
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	for i := range tasks {
		tasks[i].Annotate(now)
	}
	return tasks, nil
}

// GetTask fetches a single task, scoped to the owner.
func (uc *UseCase) GetTask(ctx context.Context, ownerID, id string) (*domain.ComplianceTask, error) {
	task, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	task.Annotate(uc.now())
	return task, nil
}

// CreateTask validates and stores a new task for the owner.
func (uc *UseCase) CreateTask(ctx context.Context, ownerID string, task *domain.ComplianceTask) (*domain.ComplianceTask, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	task.UserID = ownerID
	if task.Status == "" {
		task.Status = domain.StatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	// completedAt tracks the stored status from the very first write.
	uc.syncCompletedAt(task, task.Status)

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return task, nil
		}
		return nil, err
	}
	created.Annotate(uc.now())
	return created, nil
}

// PatchTask applies a partial update, re-deriving completedAt when the patch
// touches status. Validation runs before any write.
func (uc *UseCase) PatchTask(ctx context.Context, ownerID, id string, patch Patch) (*domain.ComplianceTask, error) {
	task, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.TaskName != nil {
		task.TaskName = *patch.TaskName
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Category != nil {
		task.Category = *patch.Category
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		task.DueDate = &due
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		uc.syncCompletedAt(task, *patch.Status)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.persist(ctx, task); err != nil {
		return nil, err
	}
	task.Annotate(uc.now())
	return task, nil
}

// UpdateStatus moves a task to an explicit target status and keeps the
// completedAt invariant: set exactly when entering completed, cleared when
// leaving it.
func (uc *UseCase) UpdateStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) (*domain.ComplianceTask, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	task, err := uc.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	uc.syncCompletedAt(task, status)

	if err := uc.persist(ctx, task); err != nil {
		return nil, err
	}
	task.Annotate(uc.now())
	return task, nil
}

// DeleteTask removes a task owned by the caller.
func (uc *UseCase) DeleteTask(ctx context.Context, ownerID, id string) error {
	if err := uc.tasks.Delete(ctx, id, ownerID); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		task := &domain.ComplianceTask{ID: id, UserID: ownerID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) syncCompletedAt(task *domain.ComplianceTask, next domain.TaskStatus) {
	switch {
	case next == domain.StatusCompleted && task.Status != domain.StatusCompleted:
		completed := uc.now()
		task.CompletedAt = &completed
	case next != domain.StatusCompleted:
		task.CompletedAt = nil
	}
	task.Status = next
}

// owned fetches the task and hides other owners' rows behind not-found.
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

func (uc *UseCase) persist(ctx context.Context, task *domain.ComplianceTask) error {
	if err := uc.tasks.Update(ctx, task); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.ComplianceTask) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}
