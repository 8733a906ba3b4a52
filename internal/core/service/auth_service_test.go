package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/schedulr/appointments-api/internal/core/domain"
	"github.com/schedulr/appointments-api/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
	err   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.seq++
	created := cloneUser(user)
	created.ID = "user-" + strconv.Itoa(r.seq)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

type stubThrottle struct {
	blocked  bool
	failures map[string]int
	resets   int
	err      error
}

func (s *stubThrottle) Allow(context.Context, string) (bool, error) {
	return !s.blocked, s.err
}

func (s *stubThrottle) RecordFailure(_ context.Context, email string) error {
	if s.failures == nil {
		s.failures = make(map[string]int)
	}
	s.failures[email]++
	return nil
}

func (s *stubThrottle) Reset(context.Context, string) error {
	s.resets++
	return nil
}

func newTestAuthService(repo ports.UserRepository, throttle ports.LoginThrottle) *AuthService {
	return NewAuthService(repo, throttle, AuthConfig{
		JWTSecret:  "secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	res, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "  Alice@Example.com ",
		Password: "pass123",
		Name:     "Alice",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	user := res.User
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DefaultCost(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), nil, AuthConfig{JWTSecret: "secret"}, zerolog.Nop())

	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: "cost@example.com", Password: "pass123", Name: "Cost"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(res.User.PasswordHash))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cost)
	}
	if got := res.ExpiresAt.Sub(time.Now()); got < 23*time.Hour || got > 25*time.Hour {
		t.Fatalf("expected 24h expiry, got %s", got)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil)

	cases := []ports.RegisterInput{
		{Email: "", Password: "pass123", Name: "A"},
		{Email: "not-an-email", Password: "pass123", Name: "A"},
		{Email: "a@example.com", Password: "123", Name: "A"},
		{Email: "a@example.com", Password: "pass123", Name: "   "},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil)
	in := ports.RegisterInput{Email: "bob@example.com", Password: "pass123", Name: "Bob"}

	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	in.Email = "BOB@example.com"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Login_TokenSubject(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil)

	reg, err := svc.Register(context.Background(), ports.RegisterInput{Email: "carol@example.com", Password: "pass123", Name: "Carol"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "pass123")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("expected valid token, got error %v", err)
	}
	if claims.Subject != reg.User.ID {
		t.Fatalf("expected subject %q, got %q", reg.User.ID, claims.Subject)
	}
	if claims.ExpiresAt == nil {
		t.Fatalf("expected exp claim")
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	throttle := &stubThrottle{}
	svc := newTestAuthService(newStubUserRepo(), throttle)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "dan@example.com", Password: "pass123", Name: "Dan"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dan@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if throttle.failures["dan@example.com"] != 1 || throttle.failures["ghost@example.com"] != 1 {
		t.Fatalf("expected one failure per email, got %v", throttle.failures)
	}

	if _, err := svc.Login(context.Background(), "dan@example.com", "pass123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset after success, got %d", throttle.resets)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	throttle := &stubThrottle{blocked: true}
	svc := newTestAuthService(newStubUserRepo(), throttle)

	if _, err := svc.Login(context.Background(), "eve@example.com", "pass123"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleErrorDoesNotBlock(t *testing.T) {
	throttle := &stubThrottle{blocked: true, err: errors.New("redis down")}
	svc := newTestAuthService(newStubUserRepo(), throttle)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Email: "fay@example.com", Password: "pass123", Name: "Fay"}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "fay@example.com", "pass123"); err != nil {
		t.Fatalf("expected login to proceed, got %v", err)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), ports.RegisterInput{Email: "gus@example.com", Password: "pass123", Name: "Gus"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), reg.Token)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != reg.User.ID {
		t.Fatalf("expected user %q, got %q", reg.User.ID, user.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired for malformed token, got %v", err)
	}

	other := NewAuthService(repo, nil, AuthConfig{JWTSecret: "other", BcryptCost: bcrypt.MinCost}, zerolog.Nop())
	if _, err := other.Authenticate(context.Background(), reg.Token); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired for wrong secret, got %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Authenticate(context.Background(), reg.Token); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired for expired token, got %v", err)
	}
}

func TestAuthService_Authenticate_DeletedSubject(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)

	reg, err := svc.Register(context.Background(), ports.RegisterInput{Email: "hal@example.com", Password: "pass123", Name: "Hal"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	delete(repo.users, reg.User.ID)

	if _, err := svc.Authenticate(context.Background(), reg.Token); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestAuthService_Authenticate_RejectsNoneAlg(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), nil)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), signed); !errors.Is(err, domain.ErrAuthenticationRequired) {
		t.Fatalf("expected ErrAuthenticationRequired, got %v", err)
	}
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, nil)
	in := ports.RegisterInput{Email: "root@example.com", Password: "rootpass", Name: "Root"}

	user, created, err := svc.EnsureAdmin(context.Background(), in)
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if !created || user.Role != domain.RoleAdmin {
		t.Fatalf("expected new admin, got created=%v role=%s", created, user.Role)
	}

	in.Password = "changed"
	again, created, err := svc.EnsureAdmin(context.Background(), in)
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if created || again.ID != user.ID {
		t.Fatalf("expected existing admin to be returned untouched")
	}
	if _, err := svc.Login(context.Background(), "root@example.com", "rootpass"); err != nil {
		t.Fatalf("original password should still work: %v", err)
	}
}
