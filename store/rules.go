package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNegativePrice is reported for prices below zero.
var ErrNegativePrice = errors.New("price must not be negative")

// FieldError describes one rejected customer field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

func positiveID(id int64) (int64, error) {
	if id <= 0 {
		return id, fmt.Errorf("id %d is not positive", id)
	}

	return id, nil
}

func nonBlank(s string) (string, error) {
	if strings.TrimSpace(s) == "" {
		return s, errors.New("must not be blank")
	}

	return s, nil
}

func isEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1
}

func trimmed(s string) (string, *FieldError) {
	return strings.TrimSpace(s), nil
}

func atLeast(n int) func(int) (int, error) {
	return func(v int) (int, error) {
		if v < n {
			return v, fmt.Errorf("%d is less than %d", v, n)
		}

		return v, nil
	}
}
