// Package model defines domain entities for the application.
package model

import (
	"slices"
	"time"
)

// Role is an account's subscription tier.
type Role string

const (
	// RoleFree is the default tier.
	RoleFree Role = "free"
	// RoleSubscriber unlocks paid capabilities such as price-drop alerts.
	RoleSubscriber Role = "subscriber"
)

// IsValid checks if the role is a known tier.
func (r Role) IsValid() bool {
	return r == RoleFree || r == RoleSubscriber
}

// IsSubscriber returns true for the paid tier.
func (r Role) IsSubscriber() bool {
	return r == RoleSubscriber
}

// Account represents a registered user.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Scope constants for access token authorization.
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

// ValidScopes contains all valid scope values.
var ValidScopes = []string{ScopeRead, ScopeWrite}

// RateLimitConfig defines rate limit parameters per tier.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// TierConfigs maps account roles to their rate limit configurations.
var TierConfigs = map[Role]RateLimitConfig{
	RoleFree:       {RequestsPerMinute: 60, Burst: 10},
	RoleSubscriber: {RequestsPerMinute: 600, Burst: 50},
}

// AccessToken represents a personal access token entity.
type AccessToken struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	TokenHash   string     `json:"-"` // Never serialize
	TokenPrefix string     `json:"token_prefix"`
	Scopes      []string   `json:"scopes"`
	Name        string     `json:"name,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsRevoked returns true if the token has been revoked.
func (t *AccessToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// HasScope checks if the token carries a specific scope.
func (t *AccessToken) HasScope(scope string) bool {
	return slices.Contains(t.Scopes, scope)
}

// AccountContext is the authenticated caller identity installed by the
// auth middleware and passed explicitly into service operations. The
// core trusts it verbatim.
type AccountContext struct {
	TokenID     string   `json:"token_id"`
	TokenPrefix string   `json:"token_prefix"`
	AccountID   string   `json:"account_id"`
	Email       string   `json:"email"`
	Role        Role     `json:"role"`
	Scopes      []string `json:"scopes"`
}

// HasScope checks if the caller's token carries a specific scope.
func (a *AccountContext) HasScope(scope string) bool {
	return slices.Contains(a.Scopes, scope)
}
