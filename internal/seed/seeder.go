package seed

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/pkg/dateutil"
	"github.com/startsmart/backend/repository"
)

// Seeder creates the applicable rule tasks for a profile. Tasks the owner
// already has (by name) are skipped, so re-seeding is safe. Partial failure
// leaves a partial set; there is no rollback.
type Seeder struct {
	rules  []Rule
	tasks  repository.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewSeeder(rules []Rule, tasks repository.TaskRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		rules:  rules,
		tasks:  tasks,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the time source. Tests use it to pin due dates.
func (s *Seeder) WithClock(now func() time.Time) *Seeder {
	if now != nil {
		s.now = now
	}
	return s
}

// SeedTasks generates tasks for every rule matching the profile and returns
// how many were created.
func (s *Seeder) SeedTasks(ctx context.Context, profile *domain.BusinessCompliance) (int, error) {
	if profile == nil || profile.UserID == "" {
		return 0, domain.ErrInvalidPayload
	}

	var created int
	for _, rule := range s.rules {
		if !rule.Matches(profile) {
			continue
		}

		exists, err := s.tasks.ExistsByName(ctx, profile.UserID, rule.TaskName)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}

		task := s.buildTask(rule, profile)
		if _, err := s.tasks.Create(ctx, task); err != nil {
			s.logger.Error("failed to seed task",
				zap.String("user_id", profile.UserID),
				zap.String("task_name", rule.TaskName),
				zap.Error(err))
			return created, err
		}
		created++
	}

	s.logger.Info("compliance tasks seeded",
		zap.String("user_id", profile.UserID),
		zap.Int("created", created))
	return created, nil
}

func (s *Seeder) buildTask(rule Rule, profile *domain.BusinessCompliance) *domain.ComplianceTask {
	task := &domain.ComplianceTask{
		UserID:        profile.UserID,
		TaskName:      rule.TaskName,
		Description:   rule.Description,
		Category:      domain.TaskCategory(rule.Category),
		Priority:      domain.TaskPriority(rule.Priority),
		Status:        domain.StatusPending,
		AutoGenerated: true,
		StateSpecific: rule.StateSpecific,
	}

	if rule.MonthsUntilDue > 0 {
		due := dateutil.AddMonths(s.now(), rule.MonthsUntilDue)
		task.DueDate = &due
	}
	if rule.Recurring != "" {
		task.IsRecurring = true
		task.Frequency = domain.RecurrenceFrequency(rule.Recurring)
	}
	return task
}
