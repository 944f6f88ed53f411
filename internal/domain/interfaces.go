package domain

import (
	"context"

	"naayee/internal/models"
)

// AuthAPI covers the unauthenticated endpoints.
type AuthAPI interface {
	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// ProfileAPI covers the customer profile endpoints.
type ProfileAPI interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile models.Profile) (*models.Profile, error)
}

// DirectoryAPI covers the read-only salon directory endpoints.
type DirectoryAPI interface {
	ListSalons(ctx context.Context) ([]models.Salon, error)
	ListServices(ctx context.Context, salonID int64) ([]models.Service, error)
	ListStaff(ctx context.Context, salonID int64) ([]models.Staff, error)
}

// PaymentAPI covers order creation and receipt verification.
type PaymentAPI interface {
	CreateOrder(ctx context.Context, draft models.BookingDraft) (*models.PaymentOrder, error)
	VerifyPayment(ctx context.Context, receipt models.PaymentReceipt) error
}

// SessionManager owns the stored credential lifecycle: set on login, read by
// every authenticated call, cleared on logout or detected expiry.
type SessionManager interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Validate(ctx context.Context) error
}

// StateRepository persists the in-progress booking draft per owner.
type StateRepository interface {
	GetDraft(ctx context.Context, owner string) (*models.BookingDraft, error)
	SetDraft(ctx context.Context, owner string, draft *models.BookingDraft) error
	ClearDraft(ctx context.Context, owner string) error
}

// EventPublisher fans domain events out to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Collector stands in for the external checkout widget. Collect blocks until
// the customer completes payment or ctx is done.
type Collector interface {
	Available() bool
	Collect(ctx context.Context, checkout models.Checkout) (models.PaymentReceipt, error)
}
