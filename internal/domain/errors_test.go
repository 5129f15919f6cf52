package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_MessageAndWrapping(t *testing.T) {
	base := errors.New("pq: connection refused")
	wrapped := WrapError(ErrCodeInternal, "failed to save user", base)

	if wrapped.Error() != "failed to save user: pq: connection refused" {
		t.Fatalf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Fatalf("wrapped error must unwrap to the cause")
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(ErrInsufficientFunds, ErrCodeConflict) {
		t.Fatalf("expected conflict code")
	}
	if IsCode(ErrInsufficientFunds, ErrCodeValidation) {
		t.Fatalf("wrong code must not match")
	}
	if IsCode(errors.New("plain"), ErrCodeInternal) {
		t.Fatalf("non-domain errors carry no code")
	}

	// codes survive fmt wrapping, the usual shape raised by value objects
	err := fmt.Errorf("%w: %q", ErrInvalidCurrency, "ZZZ")
	if !IsCode(err, ErrCodeValidation) {
		t.Fatalf("expected validation code through the wrap")
	}
	if !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected sentinel match through the wrap")
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(ErrCodeValidation, "field %s is required", "email")
	if err.Message != "field email is required" {
		t.Fatalf("unexpected message %q", err.Message)
	}
	if err.Code != ErrCodeValidation {
		t.Fatalf("unexpected code %q", err.Code)
	}
}
