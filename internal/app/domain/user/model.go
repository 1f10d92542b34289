// Package user defines admin panel accounts and their roles.
package user

import (
	"time"
	"unicode/utf8"

	"github.com/kahit-saan/menu-service/internal/errors"
)

// Role gates what an account may do in the admin panel.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Account is an admin panel user. The password hash never leaves the service.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Draft is an incoming create or update payload for an account. A nil or
// blank Password on update means "keep the existing hash".
type Draft struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
)

// Validate checks account field rules. With partial set, absent fields are
// skipped and a blank password is allowed.
func (d Draft) Validate(partial bool) []errors.FieldError {
	var fields []errors.FieldError

	switch {
	case d.Username == nil:
		if !partial {
			fields = append(fields, errors.FieldError{Field: "username", Message: "Username is required"})
		}
	case utf8.RuneCountInString(*d.Username) < usernameMinLen || utf8.RuneCountInString(*d.Username) > usernameMaxLen:
		fields = append(fields, errors.FieldError{Field: "username", Message: "Username must be between 3 and 50 characters"})
	}

	switch {
	case d.Password == nil || *d.Password == "":
		if !partial {
			fields = append(fields, errors.FieldError{Field: "password", Message: "Password is required"})
		}
	case utf8.RuneCountInString(*d.Password) < passwordMinLen:
		fields = append(fields, errors.FieldError{Field: "password", Message: "Password must be at least 8 characters"})
	}

	switch {
	case d.Role == nil:
		if !partial {
			fields = append(fields, errors.FieldError{Field: "role", Message: "Role is required"})
		}
	case !Role(*d.Role).Valid():
		fields = append(fields, errors.FieldError{Field: "role", Message: "Role must be admin or staff"})
	}

	return fields
}
