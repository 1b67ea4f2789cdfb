package domain

// User is the domain model for the account owner. Identity is the email,
// treated as a case-sensitive unique key within the registered-users record.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
