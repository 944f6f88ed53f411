package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"naayee/internal/api"
	"naayee/internal/directory"
	"naayee/internal/domain"
	"naayee/internal/events"
	"naayee/internal/models"
	"naayee/internal/session"

	"github.com/rs/zerolog"
)

// ErrNotEditing is returned when an edit operation arrives outside an edit.
var ErrNotEditing = errors.New("profile: not in edit mode")

// Controller drives the profile view: session check on mount, profile and
// salon directory load, and the edit/save cycle. The server's copy of the
// profile always wins; local edits exist only between Edit and Save.
type Controller struct {
	session   domain.SessionManager
	api       domain.ProfileAPI
	directory *directory.Fetcher
	events    domain.EventPublisher
	logger    zerolog.Logger

	mu      sync.Mutex
	profile *models.Profile
	editing bool
	edited  models.Profile
	salons  []models.Salon
}

func NewController(session domain.SessionManager, profileAPI domain.ProfileAPI, dir *directory.Fetcher, bus domain.EventPublisher, logger zerolog.Logger) *Controller {
	return &Controller{
		session:   session,
		api:       profileAPI,
		directory: dir,
		events:    bus,
		logger:    logger,
	}
}

// Mount validates the session, then loads the profile, the salon list and
// the first salon's services and staff. The first salon is whatever the
// server lists first; there is no client-side ordering. A missing or expired
// credential comes back as a session error with the credential cleared, and
// the caller redirects to login.
func (c *Controller) Mount(ctx context.Context) error {
	if err := c.session.Validate(ctx); err != nil {
		if errors.Is(err, session.ErrExpired) {
			c.publishSessionExpired()
		}
		return err
	}

	prof, err := c.api.GetProfile(ctx)
	if err != nil {
		return c.mapAuth(ctx, fmt.Errorf("fetch profile: %w", err))
	}

	salons, err := c.directory.ListSalons(ctx)
	if err != nil {
		return c.mapAuth(ctx, fmt.Errorf("fetch salons: %w", err))
	}

	c.mu.Lock()
	c.profile = prof
	c.salons = salons
	c.editing = false
	c.mu.Unlock()

	if len(salons) > 0 {
		if err := c.directory.Select(ctx, salons[0].ID); err != nil {
			return c.mapAuth(ctx, fmt.Errorf("fetch salon details: %w", err))
		}
	}

	return nil
}

// Profile returns the currently displayed profile: the edit copy while
// editing, the server copy otherwise.
func (c *Controller) Profile() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editing {
		copied := c.edited
		return &copied
	}
	return c.profile
}

// Salons returns the loaded salon list.
func (c *Controller) Salons() []models.Salon {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.salons
}

// IsEditing reports whether an edit is in progress.
func (c *Controller) IsEditing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Edit switches to the editable copy of the profile.
func (c *Controller) Edit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil || c.editing {
		return
	}
	c.edited = *c.profile
	c.editing = true
}

// Cancel discards the edit copy.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = false
	c.edited = models.Profile{}
}

// SetField updates one field of the edit copy.
func (c *Controller) SetField(mutate func(*models.Profile)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.editing {
		return ErrNotEditing
	}
	mutate(&c.edited)
	return nil
}

// Save submits the full edited profile, not a diff, and replaces the local
// copy with whatever the server returns, normalizations included.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	if !c.editing {
		c.mu.Unlock()
		return ErrNotEditing
	}
	submitted := c.edited
	c.mu.Unlock()

	saved, err := c.api.UpdateProfile(ctx, submitted)
	if err != nil {
		return c.mapAuth(ctx, fmt.Errorf("save profile: %w", err))
	}

	c.mu.Lock()
	c.profile = saved
	c.editing = false
	c.edited = models.Profile{}
	c.mu.Unlock()

	if c.events != nil {
		_ = c.events.PublishJSON(events.EventProfileSaved, saved)
	}
	return nil
}

// mapAuth clears the stored credential when the server rejected it, so the
// next view starts from the login flow.
func (c *Controller) mapAuth(ctx context.Context, err error) error {
	if errors.Is(err, api.ErrAuth) {
		if clearErr := c.session.Clear(ctx); clearErr != nil {
			c.logger.Error().Err(clearErr).Msg("failed to clear rejected credential")
		}
		c.publishSessionExpired()
	}
	return err
}

func (c *Controller) publishSessionExpired() {
	if c.events == nil {
		return
	}
	_ = c.events.PublishJSON(events.EventSessionExpired, struct{}{})
}
