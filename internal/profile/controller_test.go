package profile

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"naayee/internal/api"
	"naayee/internal/directory"
	"naayee/internal/events"
	"naayee/internal/models"
	"naayee/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	validateErr error
	cleared     bool
}

func (s *stubSession) Token(ctx context.Context) (string, error)        { return "tok", nil }
func (s *stubSession) SetToken(ctx context.Context, token string) error { return nil }
func (s *stubSession) Clear(ctx context.Context) error                  { s.cleared = true; return nil }
func (s *stubSession) Validate(ctx context.Context) error               { return s.validateErr }

type stubProfileAPI struct {
	profile   *models.Profile
	getErr    error
	saved     *models.Profile
	updateErr error
	submitted *models.Profile
	getCalls  int
}

func (s *stubProfileAPI) GetProfile(ctx context.Context) (*models.Profile, error) {
	s.getCalls++
	return s.profile, s.getErr
}

func (s *stubProfileAPI) UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error) {
	s.submitted = &profile
	return s.saved, s.updateErr
}

type stubSalonAPI struct {
	mu            sync.Mutex
	salons        []models.Salon
	salonsErr     error
	servicesCalls map[int64]int
	staffCalls    map[int64]int
}

func newStubSalonAPI(salons ...models.Salon) *stubSalonAPI {
	return &stubSalonAPI{
		salons:        salons,
		servicesCalls: make(map[int64]int),
		staffCalls:    make(map[int64]int),
	}
}

func (s *stubSalonAPI) ListSalons(ctx context.Context) ([]models.Salon, error) {
	return s.salons, s.salonsErr
}

func (s *stubSalonAPI) ListServices(ctx context.Context, salonID int64) ([]models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servicesCalls[salonID]++
	return []models.Service{{ID: 1, Name: "Cut", Price: 500}}, nil
}

func (s *stubSalonAPI) ListStaff(ctx context.Context, salonID int64) ([]models.Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staffCalls[salonID]++
	return []models.Staff{{ID: 3, Name: "Priya"}}, nil
}

func testProfile() *models.Profile {
	return &models.Profile{
		FullName:    "Asha Rao",
		Email:       "asha@example.com",
		PhoneNumber: "9876543210",
		Gender:      models.GenderFemale,
	}
}

func TestMountLoadsProfileAndFirstSalon(t *testing.T) {
	salonAPI := newStubSalonAPI(
		models.Salon{ID: 7, Name: "Seven"},
		models.Salon{ID: 8, Name: "Eight"},
	)
	profileAPI := &stubProfileAPI{profile: testProfile()}
	fetcher := directory.NewFetcher(salonAPI, zerolog.Nop())

	controller := NewController(&stubSession{}, profileAPI, fetcher, nil, zerolog.Nop())
	require.NoError(t, controller.Mount(context.Background()))

	require.NotNil(t, controller.Profile())
	assert.Equal(t, "Asha Rao", controller.Profile().FullName)
	assert.Len(t, controller.Salons(), 2)

	// only the first listed salon gets its details fetched
	assert.Equal(t, 1, salonAPI.servicesCalls[7])
	assert.Equal(t, 1, salonAPI.staffCalls[7])
	assert.Zero(t, salonAPI.servicesCalls[8])

	assert.Equal(t, int64(7), fetcher.Selected())
}

func TestMountEmptyDirectorySkipsDetailFetch(t *testing.T) {
	salonAPI := newStubSalonAPI()
	profileAPI := &stubProfileAPI{profile: testProfile()}
	fetcher := directory.NewFetcher(salonAPI, zerolog.Nop())

	controller := NewController(&stubSession{}, profileAPI, fetcher, nil, zerolog.Nop())
	require.NoError(t, controller.Mount(context.Background()))

	assert.Empty(t, controller.Salons())
	assert.Zero(t, fetcher.Selected())
}

func TestMountExpiredSessionFetchesNothing(t *testing.T) {
	salonAPI := newStubSalonAPI(models.Salon{ID: 7, Name: "Seven"})
	profileAPI := &stubProfileAPI{profile: testProfile()}
	fetcher := directory.NewFetcher(salonAPI, zerolog.Nop())
	bus := events.NewEventBus()
	var expired int
	bus.Subscribe(events.EventSessionExpired, func(event *events.Event) error {
		expired++
		return nil
	})

	controller := NewController(&stubSession{validateErr: session.ErrExpired}, profileAPI, fetcher, bus, zerolog.Nop())
	err := controller.Mount(context.Background())

	require.ErrorIs(t, err, session.ErrExpired)
	assert.Zero(t, profileAPI.getCalls)
	assert.Equal(t, 1, expired)
}

func TestMountMissingSessionDoesNotPublishExpiry(t *testing.T) {
	bus := events.NewEventBus()
	var expired int
	bus.Subscribe(events.EventSessionExpired, func(event *events.Event) error {
		expired++
		return nil
	})

	controller := NewController(&stubSession{validateErr: session.ErrNoSession}, &stubProfileAPI{}, nil, bus, zerolog.Nop())
	err := controller.Mount(context.Background())

	require.ErrorIs(t, err, session.ErrNoSession)
	assert.Zero(t, expired)
}

func TestMountAuthRejectionClearsCredential(t *testing.T) {
	sess := &stubSession{}
	profileAPI := &stubProfileAPI{getErr: fmt.Errorf("status 401: %w", api.ErrAuth)}

	controller := NewController(sess, profileAPI, nil, nil, zerolog.Nop())
	err := controller.Mount(context.Background())

	require.ErrorIs(t, err, api.ErrAuth)
	assert.True(t, sess.cleared)
}

func TestEditSaveReplacesWithServerCopy(t *testing.T) {
	// the server normalizes the phone number on save
	normalized := testProfile()
	normalized.FullName = "Asha R."
	normalized.PhoneNumber = "+919876543210"

	profileAPI := &stubProfileAPI{profile: testProfile(), saved: normalized}
	salonAPI := newStubSalonAPI()
	fetcher := directory.NewFetcher(salonAPI, zerolog.Nop())
	bus := events.NewEventBus()
	var savedEvents int
	bus.Subscribe(events.EventProfileSaved, func(event *events.Event) error {
		savedEvents++
		return nil
	})

	controller := NewController(&stubSession{}, profileAPI, fetcher, bus, zerolog.Nop())
	require.NoError(t, controller.Mount(context.Background()))

	controller.Edit()
	require.True(t, controller.IsEditing())
	require.NoError(t, controller.SetField(func(p *models.Profile) { p.FullName = "Asha R." }))

	// the display shows the edit copy while editing
	assert.Equal(t, "Asha R.", controller.Profile().FullName)

	require.NoError(t, controller.Save(context.Background()))

	// the full object was submitted, untouched fields included
	require.NotNil(t, profileAPI.submitted)
	assert.Equal(t, "asha@example.com", profileAPI.submitted.Email)
	assert.Equal(t, "9876543210", profileAPI.submitted.PhoneNumber)

	assert.False(t, controller.IsEditing())
	assert.Equal(t, "+919876543210", controller.Profile().PhoneNumber)
	assert.Equal(t, 1, savedEvents)
}

func TestCancelRestoresServerCopy(t *testing.T) {
	profileAPI := &stubProfileAPI{profile: testProfile()}
	controller := NewController(&stubSession{}, profileAPI, directory.NewFetcher(newStubSalonAPI(), zerolog.Nop()), nil, zerolog.Nop())
	require.NoError(t, controller.Mount(context.Background()))

	controller.Edit()
	require.NoError(t, controller.SetField(func(p *models.Profile) { p.FullName = "Someone Else" }))
	controller.Cancel()

	assert.False(t, controller.IsEditing())
	assert.Equal(t, "Asha Rao", controller.Profile().FullName)
}

func TestSetFieldOutsideEdit(t *testing.T) {
	controller := NewController(&stubSession{}, &stubProfileAPI{}, nil, nil, zerolog.Nop())

	err := controller.SetField(func(p *models.Profile) { p.FullName = "x" })
	assert.ErrorIs(t, err, ErrNotEditing)

	err = controller.Save(context.Background())
	assert.ErrorIs(t, err, ErrNotEditing)
}

func TestSaveAuthRejectionClearsCredential(t *testing.T) {
	sess := &stubSession{}
	profileAPI := &stubProfileAPI{
		profile:   testProfile(),
		updateErr: fmt.Errorf("status 401: %w", api.ErrAuth),
	}
	controller := NewController(sess, profileAPI, directory.NewFetcher(newStubSalonAPI(), zerolog.Nop()), nil, zerolog.Nop())
	require.NoError(t, controller.Mount(context.Background()))

	controller.Edit()
	err := controller.Save(context.Background())

	require.ErrorIs(t, err, api.ErrAuth)
	assert.True(t, sess.cleared)
}
