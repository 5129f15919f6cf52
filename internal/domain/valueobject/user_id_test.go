package valueobject

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/paylight/bankcore/internal/domain"
)

func TestNewUserID_GeneratesUniqueUUIDs(t *testing.T) {
	a := NewUserID()
	b := NewUserID()
	if a.IsZero() || b.IsZero() {
		t.Fatalf("generated ids must not be zero")
	}
	if a.Equals(b) {
		t.Fatalf("expected distinct ids, got %s twice", a)
	}
	if _, err := uuid.Parse(a.Value()); err != nil {
		t.Fatalf("generated id is not a uuid: %v", err)
	}
}

func TestParseUserID_RoundTrips(t *testing.T) {
	raw := uuid.NewString()
	id, err := ParseUserID(raw)
	if err != nil {
		t.Fatalf("ParseUserID: %v", err)
	}
	if id.Value() != raw {
		t.Fatalf("expected %s got %s", raw, id.Value())
	}
}

func TestParseUserID_RejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "not-a-uuid", "1234"} {
		if _, err := ParseUserID(raw); !errors.Is(err, domain.ErrInvalidUserID) {
			t.Fatalf("%q: expected ErrInvalidUserID got %v", raw, err)
		}
	}
}
