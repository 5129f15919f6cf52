package handlers

import (
	"fmt"
	"strconv"

	"github.com/paylight/bankcore/internal/domain"
)

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, domain.WrapError(domain.ErrCodeValidation, fmt.Sprintf("expected a positive integer, got %q", raw), err)
	}
	return n, nil
}

func parseNonNegativeFloat(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, domain.WrapError(domain.ErrCodeValidation, fmt.Sprintf("expected a non-negative number, got %q", raw), err)
	}
	return f, nil
}
