package models

// Checkout configures the external payment collector for one order.
type Checkout struct {
	KeyID       string
	OrderID     string
	Amount      int64
	Currency    string
	Merchant    string
	Description string
	Email       string
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber"`
}
