package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is wrapped by every BuildError.
	ErrMissingField = errors.New("required field missing")
	// ErrHistoryNotInitialized is returned by Build when AppendHistory was
	// called before ResetHistory or SetHistory.
	ErrHistoryNotInitialized = errors.New("history appended before it was initialized")
	// ErrDeathBeforeBirth is returned by Build when the death date precedes the birth date.
	ErrDeathBeforeBirth = errors.New("death date is before birth date")
)

// BuildError names the required fields that were absent when Build was called.
type BuildError struct {
	Missing []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cannot build patient file: missing %s", strings.Join(e.Missing, ", "))
}

func (e *BuildError) Unwrap() error {
	return ErrMissingField
}
