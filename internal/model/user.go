package model

import "time"

// Role codes stored in user.role and carried in the token's "role" claim.
const (
	RoleAdmin = "a"
	RoleUser  = "u"
)

// User mirrors the `user` table. Password holds the bcrypt hash of the
// credential; it and the email address are never serialized into responses,
// matching the external contract where user objects expose only public
// fields.
//
// LastLoginDate exists in the schema but is never written by the service.
type User struct {
	ID            int64      `json:"id"`
	Username      string     `json:"username"`
	Password      string     `json:"-"`
	Email         string     `json:"-"`
	CreationDate  time.Time  `json:"creationDate"`
	LastLoginDate *time.Time `json:"lastLoginDate"`
	Role          string     `json:"role"`
}
