package service

import (
	"errors"
	"strings"
)

var (
	ErrValidation        = errors.New("validation")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInsufficientStock = errors.New("insufficient stock")
)

var sentinels = []error{ErrValidation, ErrNotFound, ErrForbidden, ErrConflict, ErrUnauthorized, ErrInsufficientStock}

// Message returns the client-facing part of an error built as
// fmt.Errorf("%w: message", sentinel).
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return strings.TrimPrefix(msg, s.Error()+": ")
		}
	}
	return msg
}
