package domain

import "time"

// TaskStatus enumerates the stored lifecycle states of a compliance task.
// Overdue is never stored; it is derived from the due date on read.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskCategory enumerates the compliance areas a task can belong to.
type TaskCategory string

const (
	CategoryTax        TaskCategory = "tax"
	CategoryLegal      TaskCategory = "legal"
	CategoryEmployment TaskCategory = "employment"
	CategoryLicensing  TaskCategory = "licensing"
)

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryTax, CategoryLegal, CategoryEmployment, CategoryLicensing:
		return true
	}
	return false
}

// TaskPriority enumerates task urgency levels.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// RecurrenceFrequency enumerates the cadences a recurring task renews at.
type RecurrenceFrequency string

const (
	FrequencyMonthly   RecurrenceFrequency = "monthly"
	FrequencyQuarterly RecurrenceFrequency = "quarterly"
	FrequencyAnnual    RecurrenceFrequency = "annual"
)

func (f RecurrenceFrequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// ComplianceTask represents a user-owned compliance obligation.
type ComplianceTask struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	TaskName      string              `json:"task_name"`
	Description   string              `json:"description,omitempty"`
	Category      TaskCategory        `json:"category"`
	Priority      TaskPriority        `json:"priority"`
	Status        TaskStatus          `json:"status"`
	DueDate       *time.Time          `json:"due_date,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	IsRecurring   bool                `json:"is_recurring"`
	Frequency     RecurrenceFrequency `json:"recurrence_frequency,omitempty"`
	AutoGenerated bool                `json:"auto_generated"`
	StateSpecific bool                `json:"state_specific"`
	Overdue       bool                `json:"overdue"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (t *ComplianceTask) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// OverdueAt reports whether the task should be presented as overdue at the
// given reference time. Both sides are compared at day granularity so a task
// never flips mid-day because of time-of-day or timezone skew.
func (t *ComplianceTask) OverdueAt(now time.Time) bool {
	if t == nil || t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return dateOnly(*t.DueDate).Before(dateOnly(now))
}

// Annotate recomputes the derived overdue flag for presentation.
func (t *ComplianceTask) Annotate(now time.Time) {
	if t == nil {
		return
	}
	t.Overdue = t.OverdueAt(now)
}

// Validate checks the closed-enum fields and the recurrence pairing.
func (t *ComplianceTask) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if t.TaskName == "" {
		return NewError(ErrCodeInvalid, "task_name is required")
	}
	if !t.Category.Valid() {
		return NewError(ErrCodeInvalid, "unknown category: "+string(t.Category))
	}
	if !t.Priority.Valid() {
		return NewError(ErrCodeInvalid, "unknown priority: "+string(t.Priority))
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if t.IsRecurring && !t.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
