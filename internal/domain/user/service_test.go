// internal/domain/user/service_test.go
package user

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/your-org/storefront-backend/internal/config"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		App: config.AppConfig{Name: "test"},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough!",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}

	return NewService(db, cfg, log)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService(t)

	resp, err := s.Register(&RegisterRequest{
		Email:     "buyer@example.com",
		Password:  "correct-horse",
		FirstName: "Ivan",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("registration returned empty tokens")
	}
	if resp.User.Password != "" {
		t.Error("password leaked in response")
	}

	login, err := s.Login(&LoginRequest{Email: "buyer@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Errorf("login user id = %d, want %d", login.User.ID, resp.User.ID)
	}
	if login.User.LastLoginAt == nil {
		t.Error("last_login_at not set on login")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService(t)

	req := &RegisterRequest{Email: "dup@example.com", Password: "long-enough-pass"}
	if _, err := s.Register(req); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if _, err := s.Register(req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestService(t)

	if _, err := s.Register(&RegisterRequest{Email: "a@example.com", Password: "the-password"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	if _, err := s.Login(&LoginRequest{Email: "a@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Login(&LoginRequest{Email: "nobody@example.com", Password: "the-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	s := newTestService(t)

	resp, err := s.Register(&RegisterRequest{Email: "r@example.com", Password: "long-enough-pass"})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	refreshed, err := s.RefreshToken(resp.RefreshToken)
	if err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("refresh returned empty access token")
	}

	// An access token is not accepted as a refresh token
	if _, err := s.RefreshToken(resp.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("access token as refresh: err = %v, want ErrInvalidCredentials", err)
	}
}
