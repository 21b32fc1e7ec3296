package domain

import "time"

// Limits enforced by the validate tags below and hinted on the forms.
// PasswordMaxBytes is bcrypt's input limit, which the tags cannot express
// since they count runes.
const (
	IdMinLen         = 3
	IdMaxLen         = 32
	PasswordMinLen   = 4
	PasswordMaxBytes = 72
)

type UserId = string

type User struct {
	Id        UserId    `db:"id"`
	PassHash  string    `db:"password_hash"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// SignUpData is what a visitor submits on the signup form.
type SignUpData struct {
	Id       UserId `validate:"required,alphanum,min=3,max=32"`
	Password string `validate:"required,min=4,max=72"`
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email,max=100"`
}

// ProfileData is a profile update; an empty Password keeps the current one.
type ProfileData struct {
	Id       UserId `validate:"required"`
	Password string `validate:"omitempty,min=4,max=72"`
	Name     string `validate:"required,max=50"`
	Email    string `validate:"required,email,max=100"`
}
