package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "planets/pkg/domain-errors"
)

// PlanetID identifies a stored planet. It is assigned by the store on insert
// and never supplied by clients.
type PlanetID uuid.UUID

// NewPlanetID returns a fresh random identifier.
func NewPlanetID() PlanetID {
	return PlanetID(uuid.New())
}

// ParsePlanetID validates an identifier received at a trust boundary.
// Empty, malformed and nil UUIDs are rejected with CodeInvalidInput.
func ParsePlanetID(s string) (PlanetID, error) {
	if strings.TrimSpace(s) == "" {
		return PlanetID{}, dErrors.New(dErrors.CodeInvalidInput, "planet id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return PlanetID{}, dErrors.New(dErrors.CodeInvalidInput, "planet id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return PlanetID{}, dErrors.New(dErrors.CodeInvalidInput, "planet id must not be the nil UUID")
	}
	return PlanetID(parsed), nil
}

func (id PlanetID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether the identifier is unset.
func (id PlanetID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText lets PlanetID appear as a plain UUID string in JSON.
func (id PlanetID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

// UnmarshalText parses a UUID string; it does not reject the nil UUID so that
// stored payloads round-trip. Use ParsePlanetID at request boundaries.
func (id *PlanetID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = PlanetID(u)
	return nil
}
