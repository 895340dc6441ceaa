package domain

import "time"

// User represents a registered account.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	ProfileImage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerProfile is the public projection of a user attached to book listings.
type OwnerProfile struct {
	ID           int64
	Username     string
	ProfileImage string
}

// Profile returns the public projection of the user.
func (u *User) Profile() OwnerProfile {
	return OwnerProfile{
		ID:           u.ID,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	}
}
