package accounts

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// idPrefix marks account identifiers on the wire, e.g. "acct-<uuid>".
const idPrefix = "acct"

// ID identifies an account. The zero value is not a valid identifier.
type ID struct {
	uuid uuid.UUID
}

// NewID returns a fresh random identifier.
func NewID() ID {
	return ID{uuid: uuid.New()}
}

// IDFromUUID wraps an existing UUID, as read back from storage.
func IDFromUUID(u uuid.UUID) ID {
	return ID{uuid: u}
}

// ParseID parses the "acct-<uuid>" form.
func ParseID(s string) (ID, error) {
	raw, ok := strings.CutPrefix(s, idPrefix+"-")
	if !ok {
		return ID{}, fmt.Errorf("invalid account id %q: missing %q prefix", s, idPrefix)
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return ID{}, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	return ID{uuid: u}, nil
}

// UUID returns the identifier without its prefix.
func (id ID) UUID() uuid.UUID {
	return id.uuid
}

func (id ID) String() string {
	return idPrefix + "-" + id.uuid.String()
}

// IsZero reports whether id was never assigned.
func (id ID) IsZero() bool {
	return id.uuid == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
