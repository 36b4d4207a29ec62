package services

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/startsmart/backend/domain"
	"github.com/startsmart/backend/internal/notify"
	"github.com/startsmart/backend/pkg/dateutil"
	"github.com/startsmart/backend/repository"
)

// ReminderDeduper claims a reminder key, returning false when another scan
// already delivered it.
type ReminderDeduper interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// ScannerConfig controls the daily reminder scan.
type ScannerConfig struct {
	Schedule string
	DedupTTL time.Duration
}

// ReminderScanner finds tasks whose due date is exactly the owner's
// configured lead time away and hands them to the notifier. The task
// lifecycle core never calls this; it is the delivery collaborator the
// reminder settings exist for.
type ReminderScanner struct {
	tasks    repository.TaskRepository
	settings repository.ReminderSettingsRepository
	notifier notify.Notifier
	deduper  ReminderDeduper
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ScannerConfig
	now      func() time.Time
}

func NewReminderScanner(
	tasks repository.TaskRepository,
	settings repository.ReminderSettingsRepository,
	notifier notify.Notifier,
	deduper ReminderDeduper,
	logger *zap.Logger,
	cfg ScannerConfig,
) *ReminderScanner {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 6 * * *"
	}
	if cfg.DedupTTL <= 0 {
		cfg.DedupTTL = 48 * time.Hour
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &ReminderScanner{
		tasks:    tasks,
		settings: settings,
		notifier: notifier,
		deduper:  deduper,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
	}

	_, _ = rs.cron.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := rs.Scan(ctx); err != nil {
			rs.logger.Error("reminder scan failed", zap.Error(err))
		}
	})

	return rs
}

// WithClock overrides the time source. Tests use it to pin "today".
func (rs *ReminderScanner) WithClock(now func() time.Time) *ReminderScanner {
	if now != nil {
		rs.now = now
	}
	return rs
}

// Start launches the cron scheduler.
func (rs *ReminderScanner) Start() {
	if rs == nil || rs.cron == nil {
		return
	}
	rs.cron.Start()
	rs.logger.Info("reminder scanner started", zap.String("schedule", rs.cfg.Schedule))
}

// Stop gracefully stops the scheduler.
func (rs *ReminderScanner) Stop(ctx context.Context) {
	if rs == nil || rs.cron == nil {
		return
	}
	stopCtx := rs.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rs.logger.Info("reminder scanner stopped")
}

// Scan runs one reminder pass. Failures on individual tasks are logged and
// skipped; the pass continues.
func (rs *ReminderScanner) Scan(ctx context.Context) error {
	today := dateutil.DateOnly(rs.now())

	due, err := rs.tasks.ListDueForReminder(ctx, today)
	if err != nil {
		return fmt.Errorf("list tasks due for reminder: %w", err)
	}

	var sent int
	for i := range due {
		task := &due[i]
		if rs.remind(ctx, task) {
			sent++
		}
	}

	rs.logger.Info("reminder scan complete",
		zap.Int("candidates", len(due)),
		zap.Int("sent", sent))
	return nil
}

func (rs *ReminderScanner) remind(ctx context.Context, task *domain.ComplianceTask) bool {
	settings, err := rs.settings.Get(ctx, task.UserID)
	if err != nil {
		rs.logger.Warn("reminder settings lookup failed",
			zap.String("user_id", task.UserID), zap.Error(err))
		return false
	}
	if !settings.Enabled || settings.Email == "" {
		return false
	}

	if rs.deduper != nil {
		key := reminderKey(task)
		claimed, err := rs.deduper.Claim(ctx, key, rs.cfg.DedupTTL)
		if err != nil {
			rs.logger.Warn("reminder dedup claim failed", zap.String("key", key), zap.Error(err))
			return false
		}
		if !claimed {
			return false
		}
	}

	if err := rs.notifier.SendTaskReminder(ctx, settings.Email, task); err != nil {
		rs.logger.Error("reminder delivery failed",
			zap.String("task_id", task.ID), zap.Error(err))
		return false
	}
	return true
}

func reminderKey(task *domain.ComplianceTask) string {
	due := ""
	if task.DueDate != nil {
		due = dateutil.DateOnly(*task.DueDate).Format("2006-01-02")
	}
	return fmt.Sprintf("reminder:%s:%s", task.ID, due)
}

// RedisDeduper implements ReminderDeduper on a shared Redis instance so
// multiple replicas send each reminder once.
type RedisDeduper struct {
	client *redislib.Client
}

func NewRedisDeduper(client *redislib.Client) *RedisDeduper {
	return &RedisDeduper{client: client}
}

func (d *RedisDeduper) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return d.client.SetNX(ctx, key, 1, ttl).Result()
}

var _ ReminderDeduper = (*RedisDeduper)(nil)
