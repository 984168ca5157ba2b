package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dealdrop/dealdrop/internal/auth"
	"github.com/dealdrop/dealdrop/internal/cache"
	"github.com/dealdrop/dealdrop/internal/model"
	"github.com/dealdrop/dealdrop/internal/repository"
)

const (
	// minAuthDuration is the minimum time to spend on auth to prevent timing attacks.
	minAuthDuration = 200 * time.Millisecond
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Auth returns a middleware that authenticates API requests.
// It extracts the access token from the Authorization header,
// verifies it, and injects the account context into the request.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			// Ensure consistent timing regardless of outcome
			defer func() {
				elapsed := time.Since(startTime)
				if elapsed < minAuthDuration {
					time.Sleep(minAuthDuration - elapsed)
				}
			}()

			// Extract token from header
			token := extractAccessToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Validate token format
			parsed, err := auth.ParseAccessToken(token)
			if err != nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_format"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Check cache first
			cacheKey := auth.QuickHash(token)
			accountCtx, _ := cfg.Cache.GetAccountContext(r.Context(), cacheKey)

			if accountCtx != nil {
				// Cache hit - use cached account context
				cfg.Logger.Info("authentication successful",
					slog.String("token_id", accountCtx.TokenID),
					slog.String("token_prefix", accountCtx.TokenPrefix),
					slog.String("account_id", accountCtx.AccountID),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.Bool("cache_hit", true),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				ctx := auth.ContextWithAccount(r.Context(), accountCtx)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Cache miss - lookup by prefix
			tokens, err := cfg.Repository.GetAccessTokensByPrefix(r.Context(), parsed.Prefix)
			if err != nil {
				cfg.Logger.Error("database error during auth",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if len(tokens) == 0 {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Verify against each candidate token (handles prefix collisions)
			var matched *model.AccessToken
			for _, t := range tokens {
				match, err := auth.VerifySecret(token, t.TokenHash)
				if err != nil {
					continue
				}
				if match {
					matched = t
					break
				}
			}

			if matched == nil {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Load the owning account for role and email
			account, err := cfg.Repository.GetAccountByID(r.Context(), matched.AccountID)
			if err != nil {
				cfg.Logger.Error("account lookup failed during auth",
					slog.String("error", err.Error()),
					slog.String("account_id", matched.AccountID),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			// Build account context
			accountCtx = &model.AccountContext{
				TokenID:     matched.ID,
				TokenPrefix: matched.TokenPrefix,
				AccountID:   account.ID,
				Email:       account.Email,
				Role:        account.Role,
				Scopes:      matched.Scopes,
			}

			// Cache the result
			_ = cfg.Cache.SetAccountContext(r.Context(), cacheKey, accountCtx)

			// Update last_used_at asynchronously. The request context is
			// canceled once the response is written, so the update gets
			// its own deadline.
			go func(tokenID string) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = cfg.Repository.UpdateTokenLastUsed(ctx, tokenID)
			}(matched.ID)

			cfg.Logger.Info("authentication successful",
				slog.String("token_id", accountCtx.TokenID),
				slog.String("token_prefix", accountCtx.TokenPrefix),
				slog.String("account_id", accountCtx.AccountID),
				slog.String("ip", r.RemoteAddr),
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Bool("cache_hit", false),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			ctx := auth.ContextWithAccount(r.Context(), accountCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractAccessToken extracts the access token from the request.
// Supports both "Authorization: Bearer <token>" and "X-Access-Token: <token>" headers.
func extractAccessToken(r *http.Request) string {
	// Try Authorization header first
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	// Fall back to X-Access-Token header
	return r.Header.Get("X-Access-Token")
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing access token","code":"UNAUTHORIZED"}`))
}
