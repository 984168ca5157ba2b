package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/dealdrop/dealdrop/internal/model"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewWithClient(client)
}

func TestAccountContextRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	account := &model.AccountContext{
		TokenID:     "tok-1",
		TokenPrefix: "7a9f3c",
		AccountID:   "acct-1",
		Email:       "shopper@example.com",
		Role:        model.RoleSubscriber,
		Scopes:      []string{model.ScopeRead, model.ScopeWrite},
	}

	if err := c.SetAccountContext(ctx, "cache-key-1", account); err != nil {
		t.Fatalf("SetAccountContext() error = %v", err)
	}

	got, err := c.GetAccountContext(ctx, "cache-key-1")
	if err != nil {
		t.Fatalf("GetAccountContext() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetAccountContext() = nil, want cached context")
	}
	if got.AccountID != account.AccountID {
		t.Errorf("account ID = %q, want %q", got.AccountID, account.AccountID)
	}
	if got.Role != model.RoleSubscriber {
		t.Errorf("role = %q, want %q", got.Role, model.RoleSubscriber)
	}
	if len(got.Scopes) != 2 {
		t.Errorf("scopes = %v, want 2 entries", got.Scopes)
	}
}

func TestGetAccountContext_Miss(t *testing.T) {
	c := newTestCache(t)

	got, err := c.GetAccountContext(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetAccountContext() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetAccountContext() = %+v, want nil on miss", got)
	}
}

func TestDeleteAccountContext(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	account := &model.AccountContext{TokenID: "tok-1", AccountID: "acct-1", Role: model.RoleFree}
	if err := c.SetAccountContext(ctx, "k", account); err != nil {
		t.Fatalf("SetAccountContext() error = %v", err)
	}
	if err := c.DeleteAccountContext(ctx, "k"); err != nil {
		t.Fatalf("DeleteAccountContext() error = %v", err)
	}

	got, err := c.GetAccountContext(ctx, "k")
	if err != nil {
		t.Fatalf("GetAccountContext() error = %v", err)
	}
	if got != nil {
		t.Error("context still cached after delete")
	}
}

func TestCheckTokenRateLimit(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Burst of 3: the first three requests pass, the fourth is rejected.
	for i := 0; i < 3; i++ {
		result, err := c.CheckTokenRateLimit(ctx, "tok-1", 60, 3)
		if err != nil {
			t.Fatalf("CheckTokenRateLimit() error = %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d rejected, want allowed", i+1)
		}
	}

	result, err := c.CheckTokenRateLimit(ctx, "tok-1", 60, 3)
	if err != nil {
		t.Fatalf("CheckTokenRateLimit() error = %v", err)
	}
	if result.Allowed {
		t.Error("fourth request allowed, want rejected")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want positive", result.RetryAfter)
	}
}

func TestCheckTokenRateLimit_UnlimitedTier(t *testing.T) {
	c := newTestCache(t)

	result, err := c.CheckTokenRateLimit(context.Background(), "tok-1", 0, 10)
	if err != nil {
		t.Fatalf("CheckTokenRateLimit() error = %v", err)
	}
	if !result.Allowed {
		t.Error("unlimited tier rejected a request")
	}
}

func TestCheckTokenRateLimit_IsolatedBuckets(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// Exhaust tok-1's bucket.
	for i := 0; i < 2; i++ {
		if _, err := c.CheckTokenRateLimit(ctx, "tok-1", 60, 1); err != nil {
			t.Fatalf("CheckTokenRateLimit() error = %v", err)
		}
	}

	// tok-2 still has its own full bucket.
	result, err := c.CheckTokenRateLimit(ctx, "tok-2", 60, 1)
	if err != nil {
		t.Fatalf("CheckTokenRateLimit() error = %v", err)
	}
	if !result.Allowed {
		t.Error("tok-2 rejected after tok-1 exhausted its bucket")
	}
}
