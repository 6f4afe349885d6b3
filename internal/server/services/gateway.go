// Package services contains server-side business logic. This file implements
// the Gateway, which authenticates operators, mints JWTs, checks permissions
// and manages user accounts.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sanitizer/internal/common"
	"github.com/dmitrijs2005/sanitizer/internal/cryptox"
	"github.com/dmitrijs2005/sanitizer/internal/dbx"
	"github.com/dmitrijs2005/sanitizer/internal/logging"
	"github.com/dmitrijs2005/sanitizer/internal/server/auth"
	"github.com/dmitrijs2005/sanitizer/internal/server/models"
	"github.com/dmitrijs2005/sanitizer/internal/server/repositories/repomanager"
)

// Token is the result of a successful Authenticate.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
	Role        models.Role
}

// dummyHash keeps Authenticate's cost the same for unknown users.
var dummyHash = cryptox.HashSecret([]byte("sanitizer-dummy-secret"))

type Gateway struct {
	db                          dbx.Transactor
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

// NewGateway constructs a Gateway. secret signs access tokens valid for ttl.
func NewGateway(db dbx.Transactor, m repomanager.RepositoryManager, secret []byte, ttl time.Duration, logger logging.Logger) *Gateway {
	return &Gateway{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   secret,
		accessTokenValidityDuration: ttl,
		logger:                      logger.With("module", "gateway"),
	}
}

// Authenticate checks the credentials and returns a signed access token.
// Unknown users, wrong secrets and deactivated accounts all yield
// ErrInvalidCredentials.
func (g *Gateway) Authenticate(ctx context.Context, userName, secret string) (*Token, error) {
	repo := g.repomanager.Users(g.db.Conn())
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = cryptox.VerifySecret(dummyHash, []byte(secret))
			return nil, common.ErrInvalidCredentials
		}
		g.logger.Error(ctx, "user lookup failed", "user", userName, "error", err)
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifySecret(user.SecretHash, []byte(secret))
	if err != nil {
		g.logger.Error(ctx, "stored secret hash unreadable", "user", userName, "error", err)
		return nil, common.ErrInvalidCredentials
	}
	if !ok || !user.Active {
		g.logger.Warn(ctx, "authentication rejected", "user", userName, "active", user.Active)
		return nil, common.ErrInvalidCredentials
	}

	token, exp, err := auth.GenerateToken(user, g.jwtSecret, g.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	g.logger.Info(ctx, "user authenticated", "user", userName, "role", user.Role)
	return &Token{AccessToken: token, ExpiresAt: exp, Role: user.Role}, nil
}

// Authorize validates token, checks that its role may perform action and
// that the account is still active. It has no side effects.
func (g *Gateway) Authorize(ctx context.Context, token string, action auth.Action) (*auth.Claims, error) {
	claims, err := auth.Authorize(token, g.jwtSecret, action)
	if err != nil {
		return nil, err
	}

	user, err := g.repomanager.Users(g.db.Conn()).GetUserByLogin(ctx, claims.UserName)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("unknown user %s: %w", claims.UserName, common.ErrInvalidToken)
	case err != nil:
		g.logger.Error(ctx, "user lookup failed", "user", claims.UserName, "error", err)
		return nil, fmt.Errorf("%w: user lookup: %v", common.ErrPersistence, err)
	case user.ID != claims.UserID:
		return nil, fmt.Errorf("token issued to another account %s: %w", claims.UserName, common.ErrInvalidToken)
	case !user.Active:
		return nil, fmt.Errorf("%s: %w", claims.UserName, common.ErrAccountDisabled)
	}
	return claims, nil
}

// CreateUser registers a new active account.
func (g *Gateway) CreateUser(ctx context.Context, userName, secret string, role models.Role) (*models.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || secret == "" {
		return nil, fmt.Errorf("user name and secret are required: %w", common.ErrInvalidRequest)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, common.ErrInvalidRequest)
	}

	user := &models.User{
		UserName:   userName,
		Role:       role,
		SecretHash: cryptox.HashSecret([]byte(secret)),
		Active:     true,
	}
	u, err := g.repomanager.Users(g.db.Conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	g.logger.Info(ctx, "user created", "user", u.UserName, "role", u.Role)
	return u, nil
}

// DeactivateUser disables an account. Users are never deleted.
func (g *Gateway) DeactivateUser(ctx context.Context, userName string) (*models.User, error) {
	u, err := g.repomanager.Users(g.db.Conn()).SetActive(ctx, userName, false)
	if err != nil {
		return nil, err
	}
	g.logger.Info(ctx, "user deactivated", "user", userName)
	return u, nil
}

// Bootstrap creates the first admin account when no users exist yet. It is
// a no-op if secret is empty or any user is already registered.
func (g *Gateway) Bootstrap(ctx context.Context, userName, secret string) error {
	if secret == "" {
		return nil
	}
	n, err := g.repomanager.Users(g.db.Conn()).Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := g.CreateUser(ctx, userName, secret, models.RoleAdmin); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}
