package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingConfiguration is returned before any row is read when a
	// required part of the configuration is absent or invalid.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrRequiredValueEmpty is returned when an attribute flagged
	// RequiredNonEmpty derives an empty value and the policy is RequiredAbort.
	ErrRequiredValueEmpty = errors.New("required value empty")

	// ErrKeyCollision is returned when two input rows derive the same key and
	// the policy is RejectCollisions. Two persisted rows deriving the same key
	// is a precondition violation of the key functions and is not detected.
	ErrKeyCollision = errors.New("key collision")
)

// ConfigError describes an absent or invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// Unwrap makes errors.Is(err, ErrMissingConfiguration) hold.
func (e *ConfigError) Unwrap() error {
	return ErrMissingConfiguration
}

// RequiredValueError names the attribute that produced an empty value.
type RequiredValueError struct {
	Attribute string
	Key       string
}

func (e *RequiredValueError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("attribute %s is required (key %s)", e.Attribute, e.Key)
	}
	return fmt.Sprintf("attribute %s is required", e.Attribute)
}

// Unwrap makes errors.Is(err, ErrRequiredValueEmpty) hold.
func (e *RequiredValueError) Unwrap() error {
	return ErrRequiredValueEmpty
}

// CollisionError names the key shared by two input rows.
type CollisionError struct {
	Key string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("duplicate input key %q", e.Key)
}

// Unwrap makes errors.Is(err, ErrKeyCollision) hold.
func (e *CollisionError) Unwrap() error {
	return ErrKeyCollision
}
