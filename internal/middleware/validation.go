package middleware

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dealdrop/dealdrop/internal/model"
)

// Validation limits.
const (
	// MaxEmailLength is the maximum length for an account email.
	MaxEmailLength = 254

	// MaxTokenNameLength is the maximum length for a token label.
	MaxTokenNameLength = 64
)

// Validation errors.
var (
	ErrEmailInvalid     = errors.New("email address is invalid")
	ErrEmailTooLong     = errors.New("email address exceeds maximum length")
	ErrDealIDInvalid    = errors.New("deal id is not a valid UUID")
	ErrScopeInvalid     = errors.New("scope is not recognized")
	ErrScopesEmpty      = errors.New("at least one scope is required")
	ErrTokenNameTooLong = errors.New("token name exceeds maximum length")
)

// emailPattern is a pragmatic email check. Full RFC 5322 validation is
// deliberately out; the address is confirmed by delivery, not by regex.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail validates an account email address.
func ValidateEmail(email string) error {
	if len(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// ValidateDealID checks that a deal identifier is a well-formed UUID.
func ValidateDealID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrDealIDInvalid
	}
	return nil
}

// ValidateScopes checks a scope list against the known scope set.
func ValidateScopes(scopes []string) error {
	if len(scopes) == 0 {
		return ErrScopesEmpty
	}
	for _, scope := range scopes {
		if !slices.Contains(model.ValidScopes, scope) {
			return ErrScopeInvalid
		}
	}
	return nil
}

// ValidateTokenName validates an optional token label.
func ValidateTokenName(name string) error {
	if len(strings.TrimSpace(name)) > MaxTokenNameLength {
		return ErrTokenNameTooLong
	}
	return nil
}
