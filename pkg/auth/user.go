package auth

import "time"

// User is the persistent identity record. Email is globally unique in its
// normalized form; PasswordHash is either nil or valid bcrypt output, never
// plaintext. Accounts are created by registration or by the first magic-link
// or OAuth login, and are never hard-deleted by this package.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash []byte
	Verified     bool
	CreatedAt    time.Time
}

// Profile is the externally visible shape of a user. Credential fields never
// appear here.
type Profile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Profile returns the user's public projection.
func (u *User) Profile() Profile {
	return Profile{ID: u.ID, Email: u.Email, Username: u.Username}
}
