// Command bootstrap-account seeds an account and issues its first access
// token. The plaintext token is printed once and never stored.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dealdrop/dealdrop/internal/auth"
	"github.com/dealdrop/dealdrop/internal/middleware"
	"github.com/dealdrop/dealdrop/internal/model"
	"github.com/dealdrop/dealdrop/internal/repository"
)

type output struct {
	AccountID   string   `json:"account_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	TokenID     string   `json:"token_id"`
	Token       string   `json:"token"`
	TokenPrefix string   `json:"token_prefix"`
	Scopes      []string `json:"scopes"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "system@dealdrop.local", "Account email")
		role        = flag.String("role", string(model.RoleFree), "Account role (free or subscriber)")
		name        = flag.String("name", "bootstrap", "Access token name")
		scopesInput = flag.String("scopes", "read,write", "Comma-separated scopes (read,write)")
		env         = flag.String("env", auth.EnvLive, "Token environment (live or test)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	if err := middleware.ValidateEmail(*email); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if err := middleware.ValidateTokenName(*name); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	if !model.Role(*role).IsValid() {
		fmt.Fprintln(os.Stderr, "invalid role; use free or subscriber")
		os.Exit(1)
	}

	scopes, err := parseScopes(*scopesInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	account, err := ensureAccount(ctx, repo, *email, model.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	generated, err := auth.GenerateAccessToken(*env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate access token:", err)
		os.Exit(1)
	}

	token := &model.AccessToken{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		TokenHash:   generated.Hash,
		TokenPrefix: generated.Prefix,
		Scopes:      scopes,
		Name:        *name,
		CreatedAt:   time.Now().UTC(),
	}

	if err := repo.CreateAccessToken(ctx, token); err != nil {
		fmt.Fprintln(os.Stderr, "create access token:", err)
		os.Exit(1)
	}

	out := output{
		AccountID:   account.ID,
		Email:       account.Email,
		Role:        string(account.Role),
		TokenID:     token.ID,
		Token:       generated.Plaintext,
		TokenPrefix: token.TokenPrefix,
		Scopes:      scopes,
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func parseScopes(input string) ([]string, error) {
	parts := strings.Split(input, ",")
	scopes := make([]string, 0, len(parts))
	for _, part := range parts {
		scope := strings.TrimSpace(part)
		if scope == "" {
			continue
		}
		scopes = append(scopes, scope)
	}
	if len(scopes) == 0 {
		scopes = []string{model.ScopeRead, model.ScopeWrite}
	}
	if err := middleware.ValidateScopes(scopes); err != nil {
		return nil, err
	}
	return scopes, nil
}

func ensureAccount(ctx context.Context, repo *repository.Repository, email string, role model.Role) (*model.Account, error) {
	existing, err := repo.GetAccountByEmail(ctx, email)
	if err == nil {
		if existing.Role != role {
			return nil, fmt.Errorf("account %s exists with role %s", email, existing.Role)
		}
		return existing, nil
	}

	account := &model.Account{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return account, nil
}
