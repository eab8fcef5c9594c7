package quote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrQuoteExpired      = errors.New("quote has expired")
	ErrNotEditable       = errors.New("quote is no longer a draft")
)

// ValidationError is a local precondition failure the user can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// PersistenceError wraps a failed call to the storage backend.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ValidationMessages flattens err into one message per failed check.
func ValidationMessages(err error) []string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, 0, len(merr.Errors))
		for _, e := range merr.Errors {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}

func joinFormat(es []error) string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
