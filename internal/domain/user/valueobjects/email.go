package valueobjects

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxEmailLength is the SMTP path limit; longer addresses cannot receive mail.
const maxEmailLength = 254

var (
	ErrEmailEmpty   = errors.New("email cannot be empty")
	ErrEmailTooLong = errors.New("email exceeds 254 characters")
	ErrEmailInvalid = errors.New("invalid email format")
)

var emailValidator = validator.New()

// Email is a trimmed, lower-cased address.
type Email struct {
	value string
}

func NewEmail(raw string) (*Email, error) {
	addr := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case addr == "":
		return nil, ErrEmailEmpty
	case len(addr) > maxEmailLength:
		return nil, ErrEmailTooLong
	case emailValidator.Var(addr, "email") != nil:
		return nil, ErrEmailInvalid
	}
	return &Email{value: addr}, nil
}

func (e *Email) String() string {
	return e.value
}
