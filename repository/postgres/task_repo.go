package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/pkg/dateutil"
	"github.com/startsmart/backend/repository"
)

const taskColumns = `id, user_id, task_name, description, category, priority, status,
	due_date, completed_at, is_recurring, recurrence_frequency,
	auto_generated, state_specific, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.ComplianceTask, error) {
	query := `SELECT ` + taskColumns + ` FROM compliance_tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.ComplianceTask, error) {
	// "overdue" is not a stored status: it becomes a date predicate over
	// the three stored states.
	query := `
	SELECT ` + taskColumns + `
	FROM compliance_tasks
	WHERE ($1 = '' OR user_id = $1)
	  AND ($2 = '' OR status = $2)
	  AND ($3 = '' OR category = $3)
	  AND (NOT $4 OR (due_date IS NOT NULL AND due_date < $5 AND status != 'completed'))
	ORDER BY due_date ASC NULLS LAST, created_at DESC
	LIMIT $6 OFFSET $7
	`

	status := filter.Status
	overdueOnly := status == repository.StatusOverdue
	if overdueOnly {
		status = ""
	}

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		status,
		filter.Category,
		overdueOnly,
		dateutil.DateOnly(time.Now()),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.ComplianceTask) (*domain.ComplianceTask, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO compliance_tasks
		(id, user_id, task_name, description, category, priority, status,
		 due_date, completed_at, is_recurring, recurrence_frequency,
		 auto_generated, state_specific)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.TaskName,
		task.Description,
		task.Category,
		task.Priority,
		task.Status,
		nullTimePtr(task.DueDate),
		nullTimePtr(task.CompletedAt),
		task.IsRecurring,
		nullString(string(task.Frequency)),
		task.AutoGenerated,
		task.StateSpecific,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.ComplianceTask) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	// Owner scoping lives in the predicate so a foreign row update reads
	// as not-found rather than silently touching someone else's task.
	const query = `
	UPDATE compliance_tasks
	SET task_name = $3,
		description = $4,
		category = $5,
		priority = $6,
		status = $7,
		due_date = $8,
		completed_at = $9,
		is_recurring = $10,
		recurrence_frequency = $11,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.TaskName,
		task.Description,
		task.Category,
		task.Priority,
		task.Status,
		nullTimePtr(task.DueDate),
		nullTimePtr(task.CompletedAt),
		task.IsRecurring,
		nullString(string(task.Frequency)),
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM compliance_tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) ExistsByName(ctx context.Context, userID, taskName string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM compliance_tasks WHERE user_id = $1 AND task_name = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, taskName).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *taskRepository) ListDueForReminder(ctx context.Context, today time.Time) ([]domain.ComplianceTask, error) {
	query := `
	SELECT ` + qualify("t", taskColumns) + `
	FROM compliance_tasks t
	JOIN reminder_settings s ON s.user_id = t.user_id
	WHERE s.enabled
	  AND t.status != 'completed'
	  AND t.due_date = $1::date + s.days_before
	`
	rows, err := r.pool.Query(ctx, query, dateutil.DateOnly(today))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]domain.ComplianceTask, error) {
	var tasks []domain.ComplianceTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.ComplianceTask, error) {
	var task domain.ComplianceTask
	var frequency *string

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.TaskName,
		&task.Description,
		&task.Category,
		&task.Priority,
		&task.Status,
		&task.DueDate,
		&task.CompletedAt,
		&task.IsRecurring,
		&frequency,
		&task.AutoGenerated,
		&task.StateSpecific,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if frequency != nil {
		task.Frequency = domain.RecurrenceFrequency(*frequency)
	}

	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
