package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dealdrop/dealdrop/internal/model"
)

const (
	// accountCachePrefix is the Redis key prefix for account context cache.
	accountCachePrefix = "account:ctx:"
	// accountCacheTTL is the time-to-live for cached account contexts.
	accountCacheTTL = 5 * time.Minute
)

// CachedAccountContext represents an account context stored in Redis.
type CachedAccountContext struct {
	TokenID     string   `json:"token_id"`
	TokenPrefix string   `json:"token_prefix"`
	AccountID   string   `json:"account_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Scopes      []string `json:"scopes"`
}

// GetAccountContext retrieves a cached account context by cache key.
// Returns nil if not found (cache miss).
func (c *Cache) GetAccountContext(ctx context.Context, cacheKey string) (*model.AccountContext, error) {
	key := accountCachePrefix + cacheKey

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached CachedAccountContext
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.AccountContext{
		TokenID:     cached.TokenID,
		TokenPrefix: cached.TokenPrefix,
		AccountID:   cached.AccountID,
		Email:       cached.Email,
		Role:        model.Role(cached.Role),
		Scopes:      cached.Scopes,
	}, nil
}

// SetAccountContext caches an account context.
func (c *Cache) SetAccountContext(ctx context.Context, cacheKey string, account *model.AccountContext) error {
	key := accountCachePrefix + cacheKey

	cached := CachedAccountContext{
		TokenID:     account.TokenID,
		TokenPrefix: account.TokenPrefix,
		AccountID:   account.AccountID,
		Email:       account.Email,
		Role:        string(account.Role),
		Scopes:      account.Scopes,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal account context: %w", err)
	}

	return c.client.Set(ctx, key, data, accountCacheTTL).Err()
}

// DeleteAccountContext removes a cached account context.
// Used when a token is revoked.
func (c *Cache) DeleteAccountContext(ctx context.Context, cacheKey string) error {
	key := accountCachePrefix + cacheKey
	return c.client.Del(ctx, key).Err()
}
