package valueobject

import (
	"errors"
	"strings"
	"testing"

	"github.com/paylight/bankcore/internal/domain"
)

func TestNewEmail_Normalizes(t *testing.T) {
	e, err := NewEmail("  John.Doe@Example.COM  ")
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	if e.Value() != "john.doe@example.com" {
		t.Fatalf("expected normalized value, got %q", e.Value())
	}
	if e.Domain() != "example.com" {
		t.Fatalf("expected domain example.com, got %q", e.Domain())
	}
}

func TestNewEmail_RejectsInvalid(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"plainaddress",
		"missing@domain",
		"@no-local.com",
		"two@@ats.com",
		"spaces in@addr.com",
		strings.Repeat("a", 250) + "@x.com",
	}
	for _, raw := range bad {
		if _, err := NewEmail(raw); !errors.Is(err, domain.ErrInvalidEmail) {
			t.Fatalf("%q: expected ErrInvalidEmail got %v", raw, err)
		}
	}
}

func TestEmail_Equals(t *testing.T) {
	a, _ := NewEmail("a@b.com")
	b, _ := NewEmail("A@B.COM")
	if !a.Equals(b) {
		t.Fatalf("expected case-insensitive equality")
	}
	c, _ := NewEmail("c@b.com")
	if a.Equals(c) {
		t.Fatalf("different addresses must not be equal")
	}
}

func TestEmail_IsZero(t *testing.T) {
	var e Email
	if !e.IsZero() {
		t.Fatalf("zero value should report IsZero")
	}
}
