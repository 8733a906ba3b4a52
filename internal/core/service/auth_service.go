package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
	"github.com/schedulr/appointments-api/internal/core/validation"
)

const (
	defaultTokenTTL   = 24 * time.Hour
	defaultBcryptCost = 10
)

// AuthConfig holds the token and hashing parameters of an AuthService.
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo     ports.UserRepository
	throttle ports.LoginThrottle
	validate *validation.Validator
	log      zerolog.Logger

	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService builds an AuthService. throttle may be nil.
func NewAuthService(repo ports.UserRepository, throttle ports.LoginThrottle, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = defaultBcryptCost
	}
	return &AuthService{
		repo:       repo,
		throttle:   throttle,
		validate:   validation.New(),
		log:        log,
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.TokenTTL,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	in.Email = domain.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Validate(&in); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, in, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}
	return s.issue(user)
}

// Authenticate verifies the token signature and expiry and loads its subject.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid token", domain.ErrAuthenticationRequired)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrAuthenticationRequired)
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", domain.ErrAuthenticationRequired)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account unless one with the email already
// exists. An existing account is returned untouched with created=false.
func (s *AuthService) EnsureAdmin(ctx context.Context, in ports.RegisterInput) (user *domain.User, created bool, err error) {
	in.Email = domain.NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("ensure admin: %w", err)
	}
	if err := s.validate.Validate(&in); err != nil {
		return nil, false, err
	}

	user, err = s.createUser(ctx, in, domain.RoleAdmin)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		// Another instance created it first.
		existing, findErr := s.repo.FindByEmail(ctx, in.Email)
		return existing, false, findErr
	}
	if err != nil {
		return nil, false, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("admin account created")
	return user, true, nil
}

func (s *AuthService) createUser(ctx context.Context, in ports.RegisterInput, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &ports.AuthResult{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}
