package adminauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lukouhub/lukouhub-backend/pkg/auth"
	"github.com/lukouhub/lukouhub-backend/pkg/config"
	"github.com/lukouhub/lukouhub-backend/pkg/db"
	"github.com/lukouhub/lukouhub-backend/pkg/db/models"
	pkgerrors "github.com/lukouhub/lukouhub-backend/pkg/errors"
	"github.com/lukouhub/lukouhub-backend/pkg/logger"
	"github.com/lukouhub/lukouhub-backend/pkg/security"
)

// LoginResult carries the minted token for a back-office session.
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service authenticates back-office accounts and seeds the first one.
type Service interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Bootstrap(ctx context.Context) error
}

type accountStore interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
}

type service struct {
	repo        accountStore
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	adminCfg    config.AdminConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs an admin auth service instance.
func NewService(repo accountStore, cfg *config.Config, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		jwtCfg:      cfg.JWT,
		passwordCfg: cfg.Password,
		adminCfg:    cfg.Admin,
		logg:        logg,
		now:         time.Now,
	}, nil
}

// Login verifies the credentials and mints a JWT. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "loading admin account")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		AdminID:  user.ID,
		Username: user.Username,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	s.logg.Info(s.logg.WithField(ctx, "username", user.Username), "admin login")
	return &LoginResult{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
	}, nil
}

// Bootstrap seeds the configured admin account on first boot. It is a
// no-op when the account already exists or no bootstrap password is set.
func (s *service) Bootstrap(ctx context.Context) error {
	if s.adminCfg.BootstrapPassword == "" {
		s.logg.Warn(ctx, "no bootstrap admin password configured, skipping seed")
		return nil
	}

	username := strings.TrimSpace(s.adminCfg.BootstrapUsername)
	if username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "bootstrap admin username cannot be blank")
	}

	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "checking for admin account")
	}

	hash, err := security.HashPassword(s.adminCfg.BootstrapPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing bootstrap password")
	}

	user := &models.AdminUser{Username: username, PasswordHash: hash}
	if err := s.repo.Create(ctx, user); err != nil {
		// Another instance may have won the race.
		if db.IsUniqueViolation(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, "creating admin account")
	}

	s.logg.Info(s.logg.WithField(ctx, "username", username), "bootstrap admin account created")
	return nil
}
