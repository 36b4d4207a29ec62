package reminder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/backend/domain"
)

type fakeSettingsRepo struct {
	settings map[string]*domain.EmailReminderSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[string]*domain.EmailReminderSettings{}}
}

func (f *fakeSettingsRepo) Get(_ context.Context, userID string) (*domain.EmailReminderSettings, error) {
	settings, ok := f.settings[userID]
	if !ok {
		return nil, domain.ErrSettingsNotFound
	}
	copied := *settings
	return &copied, nil
}

func (f *fakeSettingsRepo) Upsert(_ context.Context, settings *domain.EmailReminderSettings) error {
	copied := *settings
	f.settings[settings.UserID] = &copied
	return nil
}

func TestGetSettingsDefaults(t *testing.T) {
	uc := New(newFakeSettingsRepo(), nil)

	settings, err := uc.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", settings.UserID)
	assert.False(t, settings.Enabled)
	assert.Equal(t, 30, settings.DaysBefore)
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	repo := newFakeSettingsRepo()
	uc := New(repo, nil)

	updated, err := uc.UpdateSettings(context.Background(), "user-1", true, 14, "founder@example.com")
	require.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.Equal(t, 14, updated.DaysBefore)

	stored, err := uc.GetSettings(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, stored.Enabled)
	assert.Equal(t, 14, stored.DaysBefore)
	assert.Equal(t, "founder@example.com", stored.Email)
}

func TestUpdateSettingsRejectsNonPositiveLeadTime(t *testing.T) {
	uc := New(newFakeSettingsRepo(), nil)

	_, err := uc.UpdateSettings(context.Background(), "user-1", true, 0, "founder@example.com")
	require.Error(t, err)

	_, err = uc.UpdateSettings(context.Background(), "user-1", true, -5, "founder@example.com")
	require.Error(t, err)
}
