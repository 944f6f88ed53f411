package models

// Gender is the profile gender field. The zero value means the customer
// has not set one.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the values the server accepts.
func (g Gender) Valid() bool {
	switch g {
	case GenderUnset, GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// Profile is the customer profile as the server returns it. The client holds
// an editable copy while editing; the server copy always wins on save.
type Profile struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      Gender `json:"gender,omitempty"`
}
