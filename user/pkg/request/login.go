package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

// CreateUser bootstraps a staff account from the command line.
type CreateUser struct {
	Email    string `validate:"required,email,max=255" json:"email"`
	Password string `validate:"required,min=8,max=72"  json:"password"`
}

func (u CreateUser) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", u.Email)
}

func (u CreateUser) MarshalJSON() ([]byte, error) {
	u.Password = "***"
	type U CreateUser
	return json.Marshal(U(u))
}
