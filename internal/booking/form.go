package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"naayee/internal/directory"
	"naayee/internal/domain"
	"naayee/internal/models"

	"github.com/rs/zerolog"
)

// ValidationError reports why a draft cannot be submitted. It is produced
// locally, before any network call.
type ValidationError struct {
	Missing []string
	Reason  string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("please fill in all required fields: %s", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

// FormController holds the in-progress booking draft. Field changes are
// mirrored into the draft store so an interrupted session can pick the form
// back up; store failures degrade to in-memory only and are logged, never
// surfaced.
type FormController struct {
	directory *directory.Fetcher
	states    domain.StateRepository
	owner     string
	logger    zerolog.Logger

	mu    sync.Mutex
	draft models.BookingDraft
}

func NewFormController(dir *directory.Fetcher, states domain.StateRepository, owner string, logger zerolog.Logger) *FormController {
	return &FormController{
		directory: dir,
		states:    states,
		owner:     owner,
		logger:    logger,
	}
}

// Restore loads a previously persisted draft, if any.
func (c *FormController) Restore(ctx context.Context) error {
	draft, err := c.states.GetDraft(ctx, c.owner)
	if err != nil {
		return err
	}
	if draft == nil {
		return nil
	}

	c.mu.Lock()
	c.draft = *draft
	c.mu.Unlock()
	return nil
}

// Draft returns a snapshot of the current form state.
func (c *FormController) Draft() models.BookingDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SelectSalon switches the draft to a new salon. The dependent serviceId and
// staffId are cleared in the same update that clears the loaded lists, so a
// stale selection can never reference the previous salon. Exactly one
// services fetch and one staff fetch go out for the new salon.
func (c *FormController) SelectSalon(ctx context.Context, salonID int64) error {
	c.mu.Lock()
	c.draft.SalonID = salonID
	c.draft.ServiceID = 0
	c.draft.StaffID = 0
	c.mu.Unlock()
	c.persist(ctx)

	if salonID == 0 {
		c.directory.Deselect()
		return nil
	}
	return c.directory.Select(ctx, salonID)
}

// SetService selects a service from the loaded list.
func (c *FormController) SetService(ctx context.Context, serviceID int64) {
	c.set(ctx, func(d *models.BookingDraft) { d.ServiceID = serviceID })
}

// SetStaff selects a staff member from the loaded list.
func (c *FormController) SetStaff(ctx context.Context, staffID int64) {
	c.set(ctx, func(d *models.BookingDraft) { d.StaffID = staffID })
}

// SetEmail records the customer contact email.
func (c *FormController) SetEmail(ctx context.Context, email string) {
	c.set(ctx, func(d *models.BookingDraft) { d.CustomerEmail = email })
}

// SetDate records the booking date (YYYY-MM-DD).
func (c *FormController) SetDate(ctx context.Context, date string) {
	c.set(ctx, func(d *models.BookingDraft) { d.BookingDate = date })
}

// SetTimes records the start and end times (HH:MM).
func (c *FormController) SetTimes(ctx context.Context, start, end string) {
	c.set(ctx, func(d *models.BookingDraft) {
		d.StartTime = start
		d.EndTime = end
	})
}

// Reset empties the form, both locally and in the draft store.
func (c *FormController) Reset(ctx context.Context) {
	c.mu.Lock()
	c.draft = models.BookingDraft{}
	c.mu.Unlock()

	if err := c.states.ClearDraft(ctx, c.owner); err != nil {
		c.logger.Error().Err(err).Msg("failed to clear persisted draft")
	}
}

// Prepare validates the draft and returns the submission payload with the
// amount resolved from the selected service's price in minor currency units.
// The user-facing amount field is never trusted. A *ValidationError means
// nothing was sent anywhere.
func (c *FormController) Prepare() (models.BookingDraft, error) {
	draft := c.Draft()

	if missing := draft.MissingFields(); len(missing) > 0 {
		return models.BookingDraft{}, &ValidationError{Missing: missing}
	}

	service, ok := c.directory.ServiceByID(draft.ServiceID)
	if !ok {
		return models.BookingDraft{}, &ValidationError{Reason: "please select a valid service"}
	}

	draft.Amount = service.Price * models.MinorUnitFactor
	return draft, nil
}

func (c *FormController) set(ctx context.Context, mutate func(*models.BookingDraft)) {
	c.mu.Lock()
	mutate(&c.draft)
	c.mu.Unlock()
	c.persist(ctx)
}

func (c *FormController) persist(ctx context.Context) {
	draft := c.Draft()
	if err := c.states.SetDraft(ctx, c.owner, &draft); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist draft")
	}
}
