package models

// User is owned by the identity provider; items only keep its ID.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}
