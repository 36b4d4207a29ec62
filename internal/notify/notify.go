// Package notify delivers due-date reminders. The reminder scanner decides
// which tasks to remind about; implementations here only carry the message.
package notify

import (
	"context"

	"github.com/startsmart/backend/domain"
)

// Notifier sends a single reminder for a task to the given recipient.
type Notifier interface {
	SendTaskReminder(ctx context.Context, recipient string, task *domain.ComplianceTask) error
}

// Nop discards reminders. Used when SMTP is not configured.
type Nop struct{}

func (Nop) SendTaskReminder(context.Context, string, *domain.ComplianceTask) error {
	return nil
}
