package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestOverdueAt(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)

	t.Run("due in the past", func(t *testing.T) {
		task := &ComplianceTask{Status: StatusPending, DueDate: datePtr(2025, time.June, 14)}
		assert.True(t, task.OverdueAt(now))
	})

	t.Run("due today is not overdue", func(t *testing.T) {
		task := &ComplianceTask{Status: StatusPending, DueDate: datePtr(2025, time.June, 15)}
		assert.False(t, task.OverdueAt(now))
	})

	t.Run("due later today in wall-clock terms is not overdue", func(t *testing.T) {
		due := time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC)
		task := &ComplianceTask{Status: StatusPending, DueDate: &due}
		assert.False(t, task.OverdueAt(now))
	})

	t.Run("completed task is never overdue", func(t *testing.T) {
		task := &ComplianceTask{Status: StatusCompleted, DueDate: datePtr(2025, time.January, 1)}
		assert.False(t, task.OverdueAt(now))
	})

	t.Run("no due date", func(t *testing.T) {
		task := &ComplianceTask{Status: StatusPending}
		assert.False(t, task.OverdueAt(now))
	})

	t.Run("in progress past due", func(t *testing.T) {
		task := &ComplianceTask{Status: StatusInProgress, DueDate: datePtr(2025, time.May, 1)}
		assert.True(t, task.OverdueAt(now))
	})
}

func TestAnnotate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	task := &ComplianceTask{Status: StatusPending, DueDate: datePtr(2025, time.June, 1)}
	task.Annotate(now)
	assert.True(t, task.Overdue)

	task.Status = StatusCompleted
	task.Annotate(now)
	assert.False(t, task.Overdue)
}

func TestTaskValidate(t *testing.T) {
	valid := func() *ComplianceTask {
		return &ComplianceTask{
			TaskName: "File Annual Report",
			Category: CategoryLegal,
			Priority: PriorityHigh,
			Status:   StatusPending,
		}
	}

	t.Run("valid task", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		task := valid()
		task.TaskName = ""
		assert.Error(t, task.Validate())
	})

	t.Run("unknown category", func(t *testing.T) {
		task := valid()
		task.Category = "finance"
		assert.Error(t, task.Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		task := valid()
		task.Status = "overdue"
		assert.ErrorIs(t, task.Validate(), ErrInvalidStatus)
	})

	t.Run("recurring without frequency", func(t *testing.T) {
		task := valid()
		task.IsRecurring = true
		assert.ErrorIs(t, task.Validate(), ErrInvalidFrequency)
	})

	t.Run("recurring with frequency", func(t *testing.T) {
		task := valid()
		task.IsRecurring = true
		task.Frequency = FrequencyQuarterly
		require.NoError(t, task.Validate())
	})
}

func TestEnumValid(t *testing.T) {
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, TaskStatus("archived").Valid())
	assert.True(t, FrequencyMonthly.Valid())
	assert.False(t, RecurrenceFrequency("weekly").Valid())
	assert.True(t, PriorityLow.Valid())
	assert.False(t, TaskPriority("urgent").Valid())
}
