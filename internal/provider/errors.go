package provider

import (
	"errors"
	"fmt"
)

// UnavailableError indicates a provider session was never established or the
// provider is not configured. Always recoverable via fallback.
type UnavailableError struct {
	Provider string
	Reason   string
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("provider %s unavailable", e.Provider)
	}
	return fmt.Sprintf("provider %s unavailable: %s", e.Provider, e.Reason)
}

// Unavailable creates an UnavailableError for the named provider.
func Unavailable(provider, reason string) *UnavailableError {
	return &UnavailableError{Provider: provider, Reason: reason}
}

// CallError indicates a provider call was attempted and returned an error or
// timed out. Always recoverable via fallback.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// WrapCall normalizes an upstream error into a CallError. Returns nil for a
// nil error; an error already carrying a provider kind passes through.
func WrapCall(provider string, err error) error {
	if err == nil {
		return nil
	}
	if IsRecoverable(err) {
		return err
	}
	return &CallError{Provider: provider, Err: err}
}

// IsRecoverable reports whether the error is one of the two provider error
// kinds that the fallback resolver absorbs.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	var ue *UnavailableError
	var ce *CallError
	return errors.As(err, &ue) || errors.As(err, &ce)
}
