package seed

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/repository"
)

type fakeTaskRepo struct {
	created []*domain.ComplianceTask
}

func (f *fakeTaskRepo) GetByID(context.Context, string) (*domain.ComplianceTask, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *fakeTaskRepo) List(context.Context, repository.TaskFilter) ([]domain.ComplianceTask, error) {
	return nil, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.ComplianceTask) (*domain.ComplianceTask, error) {
	task.ID = "task-" + strconv.Itoa(len(f.created)+1)
	copied := *task
	f.created = append(f.created, &copied)
	return task, nil
}

func (f *fakeTaskRepo) Update(context.Context, *domain.ComplianceTask) error { return nil }

func (f *fakeTaskRepo) Delete(context.Context, string, string) error { return nil }

func (f *fakeTaskRepo) ExistsByName(_ context.Context, userID, taskName string) (bool, error) {
	for _, task := range f.created {
		if task.UserID == userID && task.TaskName == taskName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTaskRepo) ListDueForReminder(context.Context, time.Time) ([]domain.ComplianceTask, error) {
	return nil, nil
}

func boolPtr(b bool) *bool { return &b }

func llcProfile() *domain.BusinessCompliance {
	return &domain.BusinessCompliance{
		UserID:           "user-1",
		StateOfFormation: "DE",
		EntityType:       "llc",
	}
}

func TestRuleMatches(t *testing.T) {
	t.Run("empty conditions match everything", func(t *testing.T) {
		assert.True(t, Rule{TaskName: "Any"}.Matches(llcProfile()))
	})

	t.Run("entity type is case insensitive", func(t *testing.T) {
		rule := Rule{TaskName: "Annual Report"}
		rule.AppliesTo.EntityTypes = []string{"LLC", "corporation"}
		assert.True(t, rule.Matches(llcProfile()))

		profile := llcProfile()
		profile.EntityType = "sole_proprietorship"
		assert.False(t, rule.Matches(profile))
	})

	t.Run("employee condition", func(t *testing.T) {
		rule := Rule{TaskName: "Payroll"}
		rule.AppliesTo.HasEmployees = boolPtr(true)
		assert.False(t, rule.Matches(llcProfile()))

		profile := llcProfile()
		profile.HasEmployees = true
		assert.True(t, rule.Matches(profile))
	})

	t.Run("retail condition", func(t *testing.T) {
		rule := Rule{TaskName: "Sales Tax"}
		rule.AppliesTo.HasRetailSales = boolPtr(true)
		profile := llcProfile()
		profile.HasRetailSales = true
		assert.True(t, rule.Matches(profile))
		assert.False(t, rule.Matches(llcProfile()))
	})

	t.Run("nil profile never matches", func(t *testing.T) {
		assert.False(t, Rule{TaskName: "Any"}.Matches(nil))
	})
}

func writeRules(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
rules:
  - task_name: File Annual Report
    category: legal
    priority: high
    recurring: annual
    months_until_due: 12
    state_specific: true
    applies_to:
      entity_types: [llc, corporation]
`)
	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "File Annual Report", rules[0].TaskName)
	assert.Equal(t, 12, rules[0].MonthsUntilDue)
	assert.True(t, rules[0].StateSpecific)
}

func TestLoadRulesRejectsBadEnums(t *testing.T) {
	t.Run("unknown category", func(t *testing.T) {
		path := writeRules(t, "rules:\n  - task_name: Bad\n    category: finance\n    priority: high\n")
		_, err := LoadRules(path)
		require.Error(t, err)
	})

	t.Run("unknown recurrence", func(t *testing.T) {
		path := writeRules(t, "rules:\n  - task_name: Bad\n    category: tax\n    priority: high\n    recurring: weekly\n")
		_, err := LoadRules(path)
		require.Error(t, err)
	})

	t.Run("missing task name", func(t *testing.T) {
		path := writeRules(t, "rules:\n  - category: tax\n    priority: high\n")
		_, err := LoadRules(path)
		require.Error(t, err)
	})
}

func TestShippedRulesAreValid(t *testing.T) {
	rules, err := LoadRules(filepath.Join("..", "..", "assets", "seed_rules.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, rules)
}

func TestSeedTasks(t *testing.T) {
	rules := []Rule{
		{TaskName: "File Annual Report", Category: "legal", Priority: "high", Recurring: "annual", MonthsUntilDue: 12, StateSpecific: true},
		{TaskName: "Register for Payroll Taxes", Category: "employment", Priority: "high", MonthsUntilDue: 1},
	}
	rules[1].AppliesTo.HasEmployees = boolPtr(true)

	now := time.Date(2025, time.February, 1, 9, 0, 0, 0, time.UTC)
	repo := &fakeTaskRepo{}
	seeder := NewSeeder(rules, repo, nil).WithClock(func() time.Time { return now })

	created, err := seeder.SeedTasks(context.Background(), llcProfile())
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.Len(t, repo.created, 1)

	task := repo.created[0]
	assert.Equal(t, "File Annual Report", task.TaskName)
	assert.Equal(t, domain.CategoryLegal, task.Category)
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.True(t, task.AutoGenerated)
	assert.True(t, task.StateSpecific)
	assert.True(t, task.IsRecurring)
	assert.Equal(t, domain.FrequencyAnnual, task.Frequency)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.February, task.DueDate.Month())
	assert.Equal(t, 2026, task.DueDate.Year())
}

func TestSeedTasksIsIdempotent(t *testing.T) {
	rules := []Rule{
		{TaskName: "File Annual Report", Category: "legal", Priority: "high", MonthsUntilDue: 12},
	}
	repo := &fakeTaskRepo{}
	seeder := NewSeeder(rules, repo, nil)

	created, err := seeder.SeedTasks(context.Background(), llcProfile())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	created, err = seeder.SeedTasks(context.Background(), llcProfile())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, repo.created, 1)
}

func TestSeedTasksMatchesEmployerRules(t *testing.T) {
	rules := []Rule{
		{TaskName: "Register for Payroll Taxes", Category: "employment", Priority: "high", MonthsUntilDue: 1},
	}
	rules[0].AppliesTo.HasEmployees = boolPtr(true)

	repo := &fakeTaskRepo{}
	seeder := NewSeeder(rules, repo, nil)

	profile := llcProfile()
	profile.HasEmployees = true
	created, err := seeder.SeedTasks(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, domain.CategoryEmployment, repo.created[0].Category)
}
