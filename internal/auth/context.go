package auth

import (
	"context"

	"github.com/dealdrop/dealdrop/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// accountContextKey is the context key for storing AccountContext.
	accountContextKey contextKey = "account_context"
)

// ContextWithAccount adds AccountContext to the context.
func ContextWithAccount(ctx context.Context, account *model.AccountContext) context.Context {
	return context.WithValue(ctx, accountContextKey, account)
}

// AccountFromContext retrieves AccountContext from the context.
// Returns nil if not present.
func AccountFromContext(ctx context.Context) *model.AccountContext {
	account, ok := ctx.Value(accountContextKey).(*model.AccountContext)
	if !ok {
		return nil
	}
	return account
}

// MustAccountFromContext retrieves AccountContext from the context.
// Panics if not present (use only when auth middleware has run).
func MustAccountFromContext(ctx context.Context) *model.AccountContext {
	account := AccountFromContext(ctx)
	if account == nil {
		panic("account context not found - ensure auth middleware is applied")
	}
	return account
}

// AccountIDFromContext is a convenience function to get the account ID.
// Returns empty string if not authenticated.
func AccountIDFromContext(ctx context.Context) string {
	account := AccountFromContext(ctx)
	if account == nil {
		return ""
	}
	return account.AccountID
}
