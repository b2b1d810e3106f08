// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects (User, Post, Favorite) along with
// their invariants and domain-specific errors.
package entity

import "time"

// User is both an actor (it can favorite things) and a possible favorite target.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// DisplayName returns the name shown to other users, falling back to the email.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
