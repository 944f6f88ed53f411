package payment

import (
	"errors"

	"naayee/internal/api"
	"naayee/internal/booking"
)

// UserMessage maps an error from the booking/payment flow to the message the
// user sees. Everything is terminal: the user re-initiates.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validation *booking.ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}

	switch {
	case errors.Is(err, api.ErrAuth):
		return "Session expired. Please log in again."
	case errors.Is(err, api.ErrOrderRejected):
		return "Failed to create payment order"
	case errors.Is(err, ErrCollectorUnavailable):
		return "Payment checkout is not available"
	case errors.Is(err, ErrCollection):
		return "Payment was not completed"
	case errors.Is(err, ErrVerification):
		return "Payment verification failed"
	case errors.Is(err, ErrOrderCreation):
		return "Payment initiation failed. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
