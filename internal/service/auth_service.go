package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tuitionpay/internal/models"
	"tuitionpay/internal/repository"
	"tuitionpay/pkg/utils"
)

type LoginResult struct {
	User  models.Profile `json:"user"`
	Token string         `json:"token"`
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*models.Customer, error)
}

type authService struct {
	customers  repository.CustomerRepository
	sessions   repository.SessionRepository
	sessionTTL time.Duration
}

func NewAuthService(customers repository.CustomerRepository, sessions repository.SessionRepository, sessionTTL time.Duration) AuthService {
	return &authService{
		customers:  customers,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// dummyHash is compared against when the username does not exist, so the
// unknown-user path costs the same as a wrong-password path.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, utils.ErrValidation
	}

	customer, err := s.customers.GetByUsername(ctx, username)
	if err != nil {
		log.Printf("[ERROR] customer lookup failed for login: %v", err)
		return nil, utils.ErrInternalServer
	}
	if customer == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, utils.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, utils.ErrInternalServer
	}

	session := &models.Session{
		Token:      token,
		CustomerID: customer.ID,
		ExpiresAt:  time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		log.Printf("[ERROR] session create failed: %v", err)
		return nil, utils.ErrInternalServer
	}

	// Best-effort sweep of stale sessions.
	if err := s.sessions.DeleteExpired(ctx); err != nil {
		log.Printf("[WARN] expired session sweep failed: %v", err)
	}

	return &LoginResult{User: customer.Profile(), Token: token}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return utils.ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		log.Printf("[ERROR] session delete failed: %v", err)
		return utils.ErrInternalServer
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.Customer, error) {
	if token == "" {
		return nil, utils.ErrUnauthorized
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		log.Printf("[ERROR] session lookup failed: %v", err)
		return nil, utils.ErrInternalServer
	}
	if session == nil {
		return nil, utils.ErrUnauthorized
	}
	customer, err := s.customers.GetByID(ctx, session.CustomerID)
	if err != nil {
		log.Printf("[ERROR] customer lookup failed for session: %v", err)
		return nil, utils.ErrInternalServer
	}
	if customer == nil {
		return nil, utils.ErrUnauthorized
	}
	return customer, nil
}

// newSessionToken returns 32 random bytes hex-encoded: 64 characters,
// 256 bits of entropy.
func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
