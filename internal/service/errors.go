package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSubmitInProgress = errors.New("submission already in progress")
	ErrReadOnlyField    = errors.New("field is read-only")
	ErrUnknownField     = errors.New("unknown field")
)

const (
	MsgRequired       = "Required"
	MsgExpectedString = "Expected string"
	MsgExpectedNumber = "Expected number"
	MsgInvalidDate    = "Invalid date"
)

// ValidationErrors maps a field name to its message. A nil or empty value means valid.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Fields(), ", ")
}

// Fields returns the offending field names in sorted order.
func (e ValidationErrors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e ValidationErrors) merge(other ValidationErrors) ValidationErrors {
	if len(other) == 0 {
		return e
	}
	if e == nil {
		e = make(ValidationErrors, len(other))
	}
	for name, msg := range other {
		if _, exists := e[name]; !exists {
			e[name] = msg
		}
	}
	return e
}
