package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
)

type scannerTaskRepo struct {
	due []domain.ComplianceTask
}

func (r *scannerTaskRepo) GetByID(context.Context, string) (*domain.ComplianceTask, error) {
	return nil, domain.ErrTaskNotFound
}

func (r *scannerTaskRepo) List(context.Context, repository.TaskFilter) ([]domain.ComplianceTask, error) {
	return nil, nil
}

func (r *scannerTaskRepo) Create(_ context.Context, task *domain.ComplianceTask) (*domain.ComplianceTask, error) {
	return task, nil
}

func (r *scannerTaskRepo) Update(context.Context, *domain.ComplianceTask) error { return nil }

func (r *scannerTaskRepo) Delete(context.Context, string, string) error { return nil }

func (r *scannerTaskRepo) ExistsByName(context.Context, string, string) (bool, error) {
	return false, nil
}

func (r *scannerTaskRepo) ListDueForReminder(context.Context, time.Time) ([]domain.ComplianceTask, error) {
	return r.due, nil
}

type scannerSettingsRepo struct {
	byUser map[string]*domain.EmailReminderSettings
}

func (r *scannerSettingsRepo) Get(_ context.Context, userID string) (*domain.EmailReminderSettings, error) {
	settings, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	return settings, nil
}

func (r *scannerSettingsRepo) Upsert(_ context.Context, settings *domain.EmailReminderSettings) error {
	r.byUser[settings.UserID] = settings
	return nil
}

type recordingNotifier struct {
	recipients []string
	taskIDs    []string
}

func (n *recordingNotifier) SendTaskReminder(_ context.Context, recipient string, task *domain.ComplianceTask) error {
	n.recipients = append(n.recipients, recipient)
	n.taskIDs = append(n.taskIDs, task.ID)
	return nil
}

type memoryDeduper struct {
	claimed map[string]bool
}

func (d *memoryDeduper) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.claimed == nil {
		d.claimed = map[string]bool{}
	}
	if d.claimed[key] {
		return false, nil
	}
	d.claimed[key] = true
	return true, nil
}

func scannerFixture(due []domain.ComplianceTask, settings map[string]*domain.EmailReminderSettings) (*ReminderScanner, *recordingNotifier) {
	notifier := &recordingNotifier{}
	scanner := NewReminderScanner(
		&scannerTaskRepo{due: due},
		&scannerSettingsRepo{byUser: settings},
		notifier,
		&memoryDeduper{},
		nil,
		ScannerConfig{},
	).WithClock(func() time.Time {
		return time.Date(2025, time.June, 1, 6, 0, 0, 0, time.UTC)
	})
	return scanner, notifier
}

func dueTask(id, userID string) domain.ComplianceTask {
	due := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	return domain.ComplianceTask{
		ID:       id,
		UserID:   userID,
		TaskName: "File Annual Report",
		Category: domain.CategoryLegal,
		Priority: domain.PriorityHigh,
		Status:   domain.StatusPending,
		DueDate:  &due,
	}
}

func TestScanSendsReminders(t *testing.T) {
	scanner, notifier := scannerFixture(
		[]domain.ComplianceTask{dueTask("task-1", "user-1")},
		map[string]*domain.EmailReminderSettings{
			"user-1": {UserID: "user-1", Enabled: true, DaysBefore: 30, Email: "founder@example.com"},
		},
	)

	require.NoError(t, scanner.Scan(context.Background()))
	assert.Equal(t, []string{"founder@example.com"}, notifier.recipients)
	assert.Equal(t, []string{"task-1"}, notifier.taskIDs)
}

func TestScanSkipsDisabledOwners(t *testing.T) {
	scanner, notifier := scannerFixture(
		[]domain.ComplianceTask{dueTask("task-1", "user-1")},
		map[string]*domain.EmailReminderSettings{
			"user-1": {UserID: "user-1", Enabled: false, DaysBefore: 30, Email: "founder@example.com"},
		},
	)

	require.NoError(t, scanner.Scan(context.Background()))
	assert.Empty(t, notifier.recipients)
}

func TestScanSkipsOwnersWithoutEmail(t *testing.T) {
	scanner, notifier := scannerFixture(
		[]domain.ComplianceTask{dueTask("task-1", "user-1")},
		map[string]*domain.EmailReminderSettings{
			"user-1": {UserID: "user-1", Enabled: true, DaysBefore: 30},
		},
	)

	require.NoError(t, scanner.Scan(context.Background()))
	assert.Empty(t, notifier.recipients)
}

func TestScanSkipsOwnersWithoutSettings(t *testing.T) {
	scanner, notifier := scannerFixture(
		[]domain.ComplianceTask{dueTask("task-1", "user-1")},
		map[string]*domain.EmailReminderSettings{},
	)

	require.NoError(t, scanner.Scan(context.Background()))
	assert.Empty(t, notifier.recipients)
}

func TestScanDeduplicatesAcrossRuns(t *testing.T) {
	scanner, notifier := scannerFixture(
		[]domain.ComplianceTask{dueTask("task-1", "user-1")},
		map[string]*domain.EmailReminderSettings{
			"user-1": {UserID: "user-1", Enabled: true, DaysBefore: 30, Email: "founder@example.com"},
		},
	)

	require.NoError(t, scanner.Scan(context.Background()))
	require.NoError(t, scanner.Scan(context.Background()))
	assert.Len(t, notifier.recipients, 1)
}

func TestScanContinuesPastFailures(t *testing.T) {
	scanner, notifier := scannerFixture(
		[]domain.ComplianceTask{
			dueTask("task-1", "user-missing"),
			dueTask("task-2", "user-1"),
		},
		map[string]*domain.EmailReminderSettings{
			"user-1": {UserID: "user-1", Enabled: true, DaysBefore: 30, Email: "founder@example.com"},
		},
	)

	require.NoError(t, scanner.Scan(context.Background()))
	assert.Equal(t, []string{"task-2"}, notifier.taskIDs)
}
