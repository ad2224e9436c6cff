package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID    bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email string        `bson:"email" json:"email"`
	Phone string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Name  string        `bson:"name,omitempty" json:"name,omitempty"`

	// Password holds the bcrypt hash once persisted. SetPassword stages a
	// plaintext that the store hashes before any write.
	Password string `bson:"password,omitempty" json:"-"`

	ForgotPasswordResetToken   string     `bson:"forgotPasswordResetToken,omitempty"`
	ForgotPasswordResetExpires *time.Time `bson:"forgotPasswordResetExpires,omitempty"`

	LastLoginAt   *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	TermsAccepted *time.Time `bson:"termsAccepted,omitempty" json:"termsAccepted,omitempty"`

	// Location is the user's home coordinates, used as the default center
	// for proximity searches.
	Location *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	passwordChanged bool
}

// SetPassword stages a new plaintext password. The store replaces it with a
// bcrypt hash on the next Create or Save; the plaintext is never persisted.
func (u *User) SetPassword(plaintext string) {
	u.Password = plaintext
	u.passwordChanged = true
}

// PasswordChanged reports whether SetPassword was called since the last save.
func (u *User) PasswordChanged() bool {
	return u.passwordChanged
}

// ClearPasswordChanged marks the staged password as hashed.
func (u *User) ClearPasswordChanged() {
	u.passwordChanged = false
}

// PublicUser is the redacted view returned to clients.
type PublicUser struct {
	ID    bson.ObjectID `bson:"_id" json:"_id"`
	Name  string        `bson:"name,omitempty" json:"name"`
	Email string        `bson:"email" json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
