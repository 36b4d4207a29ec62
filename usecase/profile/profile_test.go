package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startsmart/backend/domain"
)

type fakeProfileRepo struct {
	profiles map[string]*domain.BusinessCompliance
	fail     bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*domain.BusinessCompliance{}}
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID string) (*domain.BusinessCompliance, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, profile *domain.BusinessCompliance) error {
	if f.fail {
		return assert.AnError
	}
	copied := *profile
	f.profiles[profile.UserID] = &copied
	return nil
}

type recordingBuffer struct {
	profiles []string
}

func (r *recordingBuffer) BufferTask(context.Context, string, *domain.ComplianceTask) error {
	return nil
}

func (r *recordingBuffer) BufferProfile(_ context.Context, operation string, _ *domain.BusinessCompliance) error {
	r.profiles = append(r.profiles, operation)
	return nil
}

func validProfile() *domain.BusinessCompliance {
	return &domain.BusinessCompliance{
		UserID:           "user-1",
		StateOfFormation: "DE",
		EntityType:       "llc",
		HasEmployees:     true,
	}
}

func TestUpsertProfileRoundTrip(t *testing.T) {
	repo := newFakeProfileRepo()
	uc := New(repo, nil, nil)

	_, err := uc.UpsertProfile(context.Background(), validProfile())
	require.NoError(t, err)

	stored, err := uc.GetProfile(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "DE", stored.StateOfFormation)
	assert.Equal(t, "llc", stored.EntityType)
	assert.True(t, stored.HasEmployees)
}

func TestUpsertProfileValidation(t *testing.T) {
	uc := New(newFakeProfileRepo(), nil, nil)

	t.Run("missing state", func(t *testing.T) {
		profile := validProfile()
		profile.StateOfFormation = ""
		_, err := uc.UpsertProfile(context.Background(), profile)
		require.Error(t, err)
	})

	t.Run("missing entity type", func(t *testing.T) {
		profile := validProfile()
		profile.EntityType = ""
		_, err := uc.UpsertProfile(context.Background(), profile)
		require.Error(t, err)
	})

	t.Run("nil profile", func(t *testing.T) {
		_, err := uc.UpsertProfile(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	})
}

func TestUpsertProfileBuffersOnFailure(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.fail = true
	buf := &recordingBuffer{}
	uc := New(repo, buf, nil)

	profile, err := uc.UpsertProfile(context.Background(), validProfile())
	require.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, []string{"update"}, buf.profiles)
}

func TestGetProfileNotFound(t *testing.T) {
	uc := New(newFakeProfileRepo(), nil, nil)
	_, err := uc.GetProfile(context.Background(), "user-1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
