package domain

import "time"

// EmailReminderSettings holds an owner's reminder policy. Delivery itself is
// the reminder scanner's concern; this record is pure configuration.
type EmailReminderSettings struct {
	UserID     string    `json:"user_id"`
	Enabled    bool      `json:"enabled"`
	DaysBefore int       `json:"days_before"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultReminderSettings is what owners get before they configure anything.
func DefaultReminderSettings(userID string) *EmailReminderSettings {
	return &EmailReminderSettings{
		UserID:     userID,
		Enabled:    false,
		DaysBefore: 30,
	}
}

// Validate rejects non-positive lead times.
func (s *EmailReminderSettings) Validate() error {
	if s == nil {
		return ErrInvalidPayload
	}
	if s.DaysBefore <= 0 {
		return NewError(ErrCodeInvalid, "days_before must be a positive integer")
	}
	return nil
}
