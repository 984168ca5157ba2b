package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dealdrop/dealdrop/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// applyMigration executes a single migration file against the pool.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(root, "migrations", name))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

// resetSchema applies a migration's down then up SQL against the pool.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, migration string) error {
	if err := applyMigration(ctx, pool, migration+".down.sql"); err != nil {
		return err
	}
	return applyMigration(ctx, pool, migration+".up.sql")
}

// ResetAccountsSchema drops and recreates the accounts and access_tokens
// schemas for tests. Access tokens drop first because they reference accounts.
func ResetAccountsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	steps := []string{
		"000002_access_tokens.down.sql",
		"000001_accounts.down.sql",
		"000001_accounts.up.sql",
		"000002_access_tokens.up.sql",
	}
	for _, step := range steps {
		if err := applyMigration(ctx, pool, step); err != nil {
			return err
		}
	}
	return nil
}

// ResetCatalogSchema drops and recreates the deals and prices schemas for tests.
func ResetCatalogSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_deals")
}

// ResetWishlistSchema drops and recreates the wishlist_entries schema for tests.
func ResetWishlistSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000004_wishlist_entries")
}

// ResetTrackingSchema drops and recreates the tracking_events schema for tests.
func ResetTrackingSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000005_tracking_events")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestAccount creates a test account with sensible defaults.
func NewTestAccount(t testing.TB, role model.Role) *model.Account {
	t.Helper()
	now := time.Now().UTC()
	return &model.Account{
		ID:        uuid.NewString(),
		Email:     fmt.Sprintf("test-%d@example.com", now.UnixNano()),
		Role:      role,
		CreatedAt: now,
	}
}

// NewTestDeal creates an active test deal with no expiry.
func NewTestDeal(t testing.TB, title string) *model.Deal {
	t.Helper()
	return &model.Deal{
		ID:        uuid.NewString(),
		Title:     title,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestDealWithExpiry creates an active test deal with an expiry time.
func NewTestDealWithExpiry(t testing.TB, title string, expiresAt time.Time) *model.Deal {
	t.Helper()
	deal := NewTestDeal(t, title)
	deal.ExpiresAt = &expiresAt
	return deal
}

// NewTestAccessToken creates a test access token with read and write scopes.
func NewTestAccessToken(t testing.TB, accountID string) *model.AccessToken {
	t.Helper()
	now := time.Now().UTC()
	return &model.AccessToken{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		TokenHash:   fmt.Sprintf("hash-%d", now.UnixNano()),
		TokenPrefix: "abc123",
		Scopes:      []string{model.ScopeRead, model.ScopeWrite},
		Name:        "Test Token",
		CreatedAt:   now,
	}
}

// NewTestWishlistEntry creates a test wishlist entry with alerts disabled.
func NewTestWishlistEntry(t testing.TB, accountID, dealID string) *model.WishlistEntry {
	t.Helper()
	return &model.WishlistEntry{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		DealID:       dealID,
		AlertEnabled: false,
		CreatedAt:    time.Now().UTC(),
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
