package models

// Identity identifies the owner of progress records.
// An authenticated user has UserID > 0. A guest has only GuestID.
// GuestID may also be set for an authenticated user who still carries a guest session.
type Identity struct {
	UserID  int
	GuestID string
}

// Authenticated reports whether the identity belongs to a signed-in user
func (i Identity) Authenticated() bool {
	return i.UserID > 0
}

// Profile represents the subset of a user profile consumed by the playground
type Profile struct {
	UserID   int    `json:"userId"`
	FullName string `json:"fullName"`
	Plan     Plan   `json:"plan"`
}
