package domain

import "time"

// User is the domain model for registered accounts.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity returns the authentication view of the user.
func (u *User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Roles: append([]Role(nil), u.Roles...),
	}
}
