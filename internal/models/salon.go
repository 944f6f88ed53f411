package models

// Salon is a read-only directory entry. The client never mutates salons.
type Salon struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	ZipCode string `json:"zipCode"`
}

// Service is a bookable service scoped to a salon. Price is in whole
// currency units; conversion to the minor unit happens at order time.
type Service struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Staff is a bookable staff member scoped to a salon.
type Staff struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
