// Package accounts implements the account resource: its model, storage
// contract and HTTP handlers.
package accounts

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
)

// ErrNotFound is returned by a Repository when no account has the given ID.
var ErrNotFound = errors.New("account not found")

// Field length limits in characters, matching the VARCHAR sizes of the
// accounts table.
const (
	MaxNameLength    = 64
	MaxEmailLength   = 64
	MaxAddressLength = 256
	MaxPhoneLength   = 32
)

// Account is a customer account.
type Account struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	DateJoined  time.Time `json:"date_joined"`
}

// Validate returns every problem with the account at once.
func (a Account) Validate() error {
	var result error

	if strings.TrimSpace(a.Name) == "" {
		result = multierror.Append(result, errors.New("name is required"))
	} else if utf8.RuneCountInString(a.Name) > MaxNameLength {
		result = multierror.Append(result, fmt.Errorf("name must be at most %d characters", MaxNameLength))
	}

	switch {
	case strings.TrimSpace(a.Email) == "":
		result = multierror.Append(result, errors.New("email is required"))
	case utf8.RuneCountInString(a.Email) > MaxEmailLength:
		result = multierror.Append(result, fmt.Errorf("email must be at most %d characters", MaxEmailLength))
	default:
		if _, err := mail.ParseAddress(a.Email); err != nil {
			result = multierror.Append(result, fmt.Errorf("email %q is not a valid address", a.Email))
		}
	}

	if utf8.RuneCountInString(a.Address) > MaxAddressLength {
		result = multierror.Append(result, fmt.Errorf("address must be at most %d characters", MaxAddressLength))
	}
	if utf8.RuneCountInString(a.PhoneNumber) > MaxPhoneLength {
		result = multierror.Append(result, fmt.Errorf("phone_number must be at most %d characters", MaxPhoneLength))
	}

	return result
}

// Today is the date_joined assigned to new accounts: midnight UTC.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
