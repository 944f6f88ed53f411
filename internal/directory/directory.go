package directory

import (
	"context"
	"sync"

	"naayee/internal/domain"
	"naayee/internal/models"

	"github.com/rs/zerolog"
)

// Fetcher retrieves the salon directory and holds the dependent service and
// staff lists for the currently selected salon. Nothing is cached: selecting
// a salon always re-fetches its services and staff in full.
//
// Every selection bumps a sequence number, and fetch results carrying a
// stale sequence are discarded. Concurrent re-selections can finish in any
// order; the lists visible afterwards always belong to the most recent one.
type Fetcher struct {
	api    domain.DirectoryAPI
	logger zerolog.Logger

	mu       sync.Mutex
	seq      uint64
	salonID  int64
	services []models.Service
	staff    []models.Staff
}

func NewFetcher(api domain.DirectoryAPI, logger zerolog.Logger) *Fetcher {
	return &Fetcher{api: api, logger: logger}
}

// ListSalons returns the full salon directory, straight from the server.
func (f *Fetcher) ListSalons(ctx context.Context) ([]models.Salon, error) {
	return f.api.ListSalons(ctx)
}

// Select makes salonID the current selection and fetches its services and
// staff, one fetch each. The previous lists are cleared before the fetches
// go out, so a fetch failure never leaves another salon's lists visible.
func (f *Fetcher) Select(ctx context.Context, salonID int64) error {
	f.mu.Lock()
	f.seq++
	tag := f.seq
	f.salonID = salonID
	f.services = nil
	f.staff = nil
	f.mu.Unlock()

	services, err := f.api.ListServices(ctx, salonID)
	if err != nil {
		return err
	}
	staff, err := f.api.ListStaff(ctx, salonID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if tag != f.seq {
		f.logger.Debug().Int64("salon_id", salonID).Msg("stale directory response discarded")
		return nil
	}
	f.services = services
	f.staff = staff
	return nil
}

// Deselect clears the selection and both dependent lists.
func (f *Fetcher) Deselect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.salonID = 0
	f.services = nil
	f.staff = nil
}

// Selected returns the currently selected salon id, zero when none.
func (f *Fetcher) Selected() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.salonID
}

// Services returns the loaded service list for the current selection.
func (f *Fetcher) Services() []models.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.services
}

// Staff returns the loaded staff list for the current selection.
func (f *Fetcher) Staff() []models.Staff {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staff
}

// ServiceByID resolves a service id against the currently loaded list.
func (f *Fetcher) ServiceByID(id int64) (models.Service, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, svc := range f.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return models.Service{}, false
}
