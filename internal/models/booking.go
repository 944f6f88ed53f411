package models

// BookingDraft is the in-progress booking form. It lives only in draft state
// until submission; the server turns it into a payment order.
type BookingDraft struct {
	SalonID       int64  `json:"salonId"`
	ServiceID     int64  `json:"serviceId"`
	StaffID       int64  `json:"staffId"`
	CustomerEmail string `json:"customerEmail"`
	BookingDate   string `json:"bookingDate"` // YYYY-MM-DD
	StartTime     string `json:"startTime"`   // HH:MM
	EndTime       string `json:"endTime"`     // HH:MM
	Amount        int64  `json:"amount"`      // minor units, derived from the service price
}

// IsEmpty reports whether every field is unset.
func (d BookingDraft) IsEmpty() bool {
	return d == BookingDraft{}
}

// MissingFields returns the names of required fields that are still unset.
// Amount is excluded: it is derived, never entered.
func (d BookingDraft) MissingFields() []string {
	var missing []string
	if d.SalonID == 0 {
		missing = append(missing, "salonId")
	}
	if d.ServiceID == 0 {
		missing = append(missing, "serviceId")
	}
	if d.StaffID == 0 {
		missing = append(missing, "staffId")
	}
	if d.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if d.BookingDate == "" {
		missing = append(missing, "bookingDate")
	}
	if d.StartTime == "" {
		missing = append(missing, "startTime")
	}
	if d.EndTime == "" {
		missing = append(missing, "endTime")
	}
	return missing
}

// PaymentOrder is created server-side from a submitted draft and handed to
// the checkout collector.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentReceipt is what the checkout collector returns after the customer
// pays. Its signature is validated server-side, never here.
type PaymentReceipt struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
