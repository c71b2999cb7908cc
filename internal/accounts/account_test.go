package accounts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validAccount() Account {
	return Account{
		ID:          NewID(),
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Address:     "12 St James's Square, London",
		PhoneNumber: "555-0100",
		DateJoined:  Today(),
	}
}

func TestAccountValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Account)
		wantErr []string
	}{
		{"valid", func(*Account) {}, nil},
		{"no phone is fine", func(a *Account) { a.PhoneNumber = "" }, nil},
		{"missing name", func(a *Account) { a.Name = "  " }, []string{"name is required"}},
		{"missing email", func(a *Account) { a.Email = "" }, []string{"email is required"}},
		{"bad email", func(a *Account) { a.Email = "ada-at-example" }, []string{"not a valid address"}},
		{"long name", func(a *Account) { a.Name = strings.Repeat("x", MaxNameLength+1) }, []string{"name must be at most 64"}},
		{"long address", func(a *Account) { a.Address = strings.Repeat("x", MaxAddressLength+1) }, []string{"address must be at most 256"}},
		{"multibyte name at limit", func(a *Account) { a.Name = strings.Repeat("é", MaxNameLength) }, nil},
		{"multibyte name over limit", func(a *Account) { a.Name = strings.Repeat("é", MaxNameLength+1) }, []string{"name must be at most 64"}},
		{"multibyte address at limit", func(a *Account) { a.Address = strings.Repeat("ß", MaxAddressLength) }, nil},
		{"multibyte phone at limit", func(a *Account) { a.PhoneNumber = strings.Repeat("٣", MaxPhoneLength) }, nil},
		{"long phone", func(a *Account) { a.PhoneNumber = strings.Repeat("1", MaxPhoneLength+1) }, []string{"phone_number must be at most 32"}},
		{
			"errors are aggregated",
			func(a *Account) { a.Name = ""; a.Email = "" },
			[]string{"name is required", "email is required"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAccount()
			tc.mutate(&a)

			err := a.Validate()
			if len(tc.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tc.wantErr {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestToday(t *testing.T) {
	today := Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, "UTC", today.Location().String())
}
