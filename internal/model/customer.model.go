package model

// Customer is a read-only reference entity here. Ownership and mutation
// live in another service; this module only lists customers to populate
// the invoice form's selection control.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

func (Customer) TableName() string { return "customers" }
