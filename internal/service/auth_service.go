package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/model"
	"github.com/Steffany-Martins/botCheckin/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	// VerifyAdminPassword checks the company authorization password used to
	// register manager and supervisor accounts.
	VerifyAdminPassword(password string) bool
	// HashPassword derives the stored credential for an admin account.
	HashPassword(password string) (string, error)
	// Login validates credentials and opens a session. Staff log in without
	// a password; admin roles must match their stored hash.
	Login(ctx context.Context, user *model.User, password string) error
	// LoginStaff opens a session for a staff user with no credential check.
	LoginStaff(ctx context.Context, user *model.User) error
	Logout(ctx context.Context, phone string) error
	IsAuthenticated(ctx context.Context, phone string) (bool, error)
}

type authService struct {
	sessions repository.SessionStore
	cfg      *config.Config
}

func NewAuthService(sessions repository.SessionStore, cfg *config.Config) AuthService {
	return &authService{sessions: sessions, cfg: cfg}
}

func (s *authService) VerifyAdminPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
}

func (s *authService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *authService) Login(ctx context.Context, user *model.User, password string) error {
	if user.RequiresPassword() {
		if user.PasswordHash == nil {
			return ErrWrongPassword
		}
		if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
			return ErrWrongPassword
		}
	}
	return s.openSession(ctx, user)
}

func (s *authService) LoginStaff(ctx context.Context, user *model.User) error {
	if user.RequiresPassword() {
		return ErrWrongPassword
	}
	return s.openSession(ctx, user)
}

func (s *authService) openSession(ctx context.Context, user *model.User) error {
	ttl := time.Duration(s.cfg.SessionExpiryHours) * time.Hour
	return s.sessions.Create(ctx, user.Phone, user.ID, ttl)
}

func (s *authService) Logout(ctx context.Context, phone string) error {
	return s.sessions.Delete(ctx, phone)
}

func (s *authService) IsAuthenticated(ctx context.Context, phone string) (bool, error) {
	return s.sessions.IsActive(ctx, phone)
}
