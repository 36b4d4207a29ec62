package transport

// TaskCreateRequest carries the fields accepted on task creation. Due dates
// travel as "2006-01-02" calendar dates.
type TaskCreateRequest struct {
	TaskName      string `json:"task_name"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	DueDate       string `json:"due_date"`
	IsRecurring   bool   `json:"is_recurring"`
	Frequency     string `json:"recurrence_frequency"`
	AutoGenerated bool   `json:"auto_generated"`
	StateSpecific bool   `json:"state_specific"`
}

// TaskPatchRequest carries a partial task update; absent fields stay untouched.
type TaskPatchRequest struct {
	TaskName    *string `json:"task_name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"due_date"`
}

type MarkRecurringRequest struct {
	Frequency string `json:"frequency"`
}

type ReminderSettingsRequest struct {
	Enabled    bool   `json:"enabled"`
	DaysBefore int    `json:"days_before"`
	Email      string `json:"email"`
}

type ProfileUpsertRequest struct {
	StateOfFormation string `json:"state_of_formation"`
	EntityType       string `json:"entity_type"`
	FiscalYearEnd    string `json:"fiscal_year_end"`
	HasEmployees     bool   `json:"has_employees"`
	HasRetailSales   bool   `json:"has_retail_sales"`
	Industry         string `json:"industry"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
