// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account identified by its (lower-cased) email. Password holds
// the bcrypt hash, never the plaintext.
type User struct {
	ID          int64
	Email       string
	Name        string
	Password    string
	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
	CreatedAt   time.Time
}

func (u *User) String() string {
	return u.Email
}
