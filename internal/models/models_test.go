package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingDraftMissingFields(t *testing.T) {
	t.Run("EmptyDraft", func(t *testing.T) {
		var draft BookingDraft
		assert.True(t, draft.IsEmpty())
		assert.Equal(t, []string{
			"salonId", "serviceId", "staffId",
			"customerEmail", "bookingDate", "startTime", "endTime",
		}, draft.MissingFields())
	})

	t.Run("CompleteDraft", func(t *testing.T) {
		draft := BookingDraft{
			SalonID:       7,
			ServiceID:     1,
			StaffID:       3,
			CustomerEmail: "a@b.c",
			BookingDate:   "2026-09-01",
			StartTime:     "10:00",
			EndTime:       "10:30",
		}
		assert.Empty(t, draft.MissingFields())
		assert.False(t, draft.IsEmpty())
	})

	t.Run("AmountNotRequired", func(t *testing.T) {
		draft := BookingDraft{
			SalonID:       7,
			ServiceID:     1,
			StaffID:       3,
			CustomerEmail: "a@b.c",
			BookingDate:   "2026-09-01",
			StartTime:     "10:00",
			EndTime:       "10:30",
			Amount:        0,
		}
		assert.Empty(t, draft.MissingFields())
	})

	t.Run("PartialDraft", func(t *testing.T) {
		draft := BookingDraft{SalonID: 7, CustomerEmail: "a@b.c"}
		assert.Equal(t, []string{
			"serviceId", "staffId", "bookingDate", "startTime", "endTime",
		}, draft.MissingFields())
	})
}

func TestGenderValid(t *testing.T) {
	assert.True(t, GenderUnset.Valid())
	assert.True(t, GenderMale.Valid())
	assert.True(t, GenderFemale.Valid())
	assert.True(t, GenderOther.Valid())
	assert.False(t, Gender("unknown").Valid())
}
