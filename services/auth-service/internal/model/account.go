package model

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role is a permission level held by an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account represents a registered identity in the authentication system.
type Account struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Email             string        `bson:"email"`
	Username          string        `bson:"username"`
	Firstname         string        `bson:"firstname"`
	Lastname          string        `bson:"lastname"`
	PasswordHash      string        `bson:"password_hash"`
	Roles             []Role        `bson:"roles"`
	Verified          bool          `bson:"verified"`
	VerificationToken string        `bson:"verification_token"`
	RefreshTokens     []string      `bson:"refresh_tokens"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

// HasRoles reports whether every role in requested is held by the account.
func (a *Account) HasRoles(requested []string) bool {
	for _, role := range requested {
		if !slices.Contains(a.Roles, Role(role)) {
			return false
		}
	}
	return true
}

// RoleNames returns the account's roles as plain strings.
func (a *Account) RoleNames() []string {
	names := make([]string, len(a.Roles))
	for i, role := range a.Roles {
		names[i] = string(role)
	}
	return names
}
