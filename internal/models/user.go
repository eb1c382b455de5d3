package models

import (
	"strings"
	"time"
)

// User represents an application user (mapped from identity provider claims)
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Sub       string    `bson:"sub" json:"sub"` // OIDC subject
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserFromClaims builds a transient User from verified OIDC claims. Returns
// nil when the subject is missing.
func UserFromClaims(claims map[string]interface{}) *User {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	return &User{Sub: sub, Email: email, Name: name}
}

// DisplayName returns the name to show to collaborators: the full name when the
// provider supplied one, otherwise the local part of the email address.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if i := strings.Index(u.Email, "@"); i > 0 {
		return u.Email[:i]
	}
	return u.Email
}
