package task

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
)

type fakeTaskRepo struct {
	tasks   map[string]*domain.ComplianceTask
	nextID  int
	failAll bool
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*domain.ComplianceTask{}}
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.ComplianceTask, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.ComplianceTask, error) {
	var out []domain.ComplianceTask
	for _, task := range f.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && string(task.Category) != filter.Category {
			continue
		}
		if filter.Status != "" && filter.Status != repository.StatusOverdue && string(task.Status) != filter.Status {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.ComplianceTask) (*domain.ComplianceTask, error) {
	if f.failAll {
		return nil, assert.AnError
	}
	f.nextID++
	task.ID = "task-" + strconv.Itoa(f.nextID)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	copied := *task
	f.tasks[task.ID] = &copied
	return task, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *domain.ComplianceTask) error {
	if f.failAll {
		return assert.AnError
	}
	if _, ok := f.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	copied := *task
	f.tasks[task.ID] = &copied
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id, userID string) error {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) ExistsByName(_ context.Context, userID, taskName string) (bool, error) {
	for _, task := range f.tasks {
		if task.UserID == userID && task.TaskName == taskName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) ListDueForReminder(context.Context, time.Time) ([]domain.ComplianceTask, error) {
	return nil, nil
}

func fixedClock(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
}

func TestCreateTaskDefaults(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil).WithClock(fixedClock(2025, time.March, 1))

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Obtain EIN",
		Category: domain.CategoryTax,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)
	assert.Nil(t, created.CompletedAt)
}

func TestCreateTaskRejectsInvalid(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil, nil)

	_, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Bad Category",
		Category: "finance",
	})
	require.Error(t, err)

	_, err = uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName:    "Recurring Without Cadence",
		Category:    domain.CategoryTax,
		IsRecurring: true,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidFrequency)
}

func TestCreateCompletedSetsCompletedAt(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil).WithClock(fixedClock(2025, time.March, 1))

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Already Done",
		Category: domain.CategoryLegal,
		Status:   domain.StatusCompleted,
	})
	require.NoError(t, err)
	require.NotNil(t, created.CompletedAt)
	assert.Equal(t, fixedClock(2025, time.March, 1)(), *created.CompletedAt)
}

func TestUpdateStatusCompletedAtInvariant(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil).WithClock(fixedClock(2025, time.March, 1))

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Renew License",
		Category: domain.CategoryLicensing,
	})
	require.NoError(t, err)

	done, err := uc.UpdateStatus(context.Background(), "user-1", created.ID, domain.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	// Reopening clears the completion timestamp.
	reopened, err := uc.UpdateStatus(context.Background(), "user-1", created.ID, domain.StatusInProgress)
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, domain.StatusInProgress, reopened.Status)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil, nil)
	_, err := uc.UpdateStatus(context.Background(), "user-1", "task-1", "archived")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestPatchTask(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil).WithClock(fixedClock(2025, time.March, 1))

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "File 941",
		Category: domain.CategoryEmployment,
	})
	require.NoError(t, err)

	name := "File Form 941"
	priority := domain.PriorityHigh
	due := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)
	patched, err := uc.PatchTask(context.Background(), "user-1", created.ID, Patch{
		TaskName: &name,
		Priority: &priority,
		DueDate:  &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "File Form 941", patched.TaskName)
	assert.Equal(t, domain.PriorityHigh, patched.Priority)
	require.NotNil(t, patched.DueDate)
	assert.Equal(t, due, *patched.DueDate)

	// Untouched fields survive.
	assert.Equal(t, domain.CategoryEmployment, patched.Category)
	assert.Equal(t, domain.StatusPending, patched.Status)
}

func TestPatchTaskValidatesBeforeWrite(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Sales Tax Return",
		Category: domain.CategoryTax,
	})
	require.NoError(t, err)

	bad := domain.TaskCategory("finance")
	_, err = uc.PatchTask(context.Background(), "user-1", created.ID, Patch{Category: &bad})
	require.Error(t, err)

	// The stored row is unchanged.
	stored, err := uc.GetTask(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryTax, stored.Category)
}

func TestOwnerScoping(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Annual Report",
		Category: domain.CategoryLegal,
	})
	require.NoError(t, err)

	_, err = uc.GetTask(context.Background(), "user-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	_, err = uc.UpdateStatus(context.Background(), "user-2", created.ID, domain.StatusCompleted)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	err = uc.DeleteTask(context.Background(), "user-2", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	// Still there for the real owner.
	_, err = uc.GetTask(context.Background(), "user-1", created.ID)
	require.NoError(t, err)
}

func TestListTasksAnnotatesOverdue(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil).WithClock(fixedClock(2025, time.June, 15))

	past := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Late Filing",
		Category: domain.CategoryTax,
		DueDate:  &past,
	})
	require.NoError(t, err)
	_, err = uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Upcoming Filing",
		Category: domain.CategoryTax,
		DueDate:  &future,
	})
	require.NoError(t, err)

	tasks, err := uc.ListTasks(context.Background(), "user-1", repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	byName := map[string]domain.ComplianceTask{}
	for _, task := range tasks {
		byName[task.TaskName] = task
	}
	assert.True(t, byName["Late Filing"].Overdue)
	assert.False(t, byName["Upcoming Filing"].Overdue)
}

type recordingBuffer struct {
	operations []string
}

func (r *recordingBuffer) BufferTask(_ context.Context, operation string, _ *domain.ComplianceTask) error {
	r.operations = append(r.operations, operation)
	return nil
}

func (r *recordingBuffer) BufferProfile(context.Context, string, *domain.BusinessCompliance) error {
	return nil
}

func TestCreateBuffersOnStorageFailure(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.failAll = true
	buf := &recordingBuffer{}
	uc := New(repo, buf, nil)

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "Buffered Create",
		Category: domain.CategoryTax,
	})
	require.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, []string{"create"}, buf.operations)
}

func TestDeleteTask(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.CreateTask(context.Background(), "user-1", &domain.ComplianceTask{
		TaskName: "One Off",
		Category: domain.CategoryLegal,
	})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteTask(context.Background(), "user-1", created.ID))
	_, err = uc.GetTask(context.Background(), "user-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
