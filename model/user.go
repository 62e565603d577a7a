package model

import "time"

// User is a Google-linked account. RefreshToken is empty until the OAuth
// callback has completed at least once.
type User struct {
	GoogleID     string    `json:"googleId" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	RefreshToken string    `json:"-" bson:"refresh_token"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// HasCredential reports whether calendar calls can be made on the user's behalf.
func (u *User) HasCredential() bool {
	return u != nil && u.RefreshToken != ""
}
