package repository

import (
	"context"
	"time"

	"github.com/startsmart/backend/domain"
)

// TaskFilter narrows task listings. Status accepts the three stored states
// plus the virtual "overdue" value, which the implementation translates into
// a date predicate.
type TaskFilter struct {
	UserID   string
	Status   string
	Category string
	Limit    int
	Offset   int
}

// StatusOverdue is the virtual filter value for tasks past their due date.
const StatusOverdue = "overdue"

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ComplianceTask, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.ComplianceTask, error)
	Create(ctx context.Context, task *domain.ComplianceTask) (*domain.ComplianceTask, error)
	Update(ctx context.Context, task *domain.ComplianceTask) error
	Delete(ctx context.Context, id, userID string) error
	// ExistsByName reports whether the owner already has a task with the
	// given name. Used by the seeder to keep re-seeding idempotent.
	ExistsByName(ctx context.Context, userID, taskName string) (bool, error)
	// ListDueForReminder returns incomplete tasks whose due date is exactly
	// the owner's configured lead time away from today, for owners with
	// reminders enabled.
	ListDueForReminder(ctx context.Context, today time.Time) ([]domain.ComplianceTask, error)
}
