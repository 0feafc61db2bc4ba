package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ziadkadry99/shopchat/internal/store"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// UserStore is the persistence surface the auth service needs.
// *store.UserStore satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, name string) (*store.User, error)
	FindUserByEmail(ctx context.Context, email string) (*store.User, error)
	FindUserByUserID(ctx context.Context, userID string) (*store.User, error)
}

// Service issues and verifies bearer tokens for registered users.
type Service struct {
	users  UserStore
	secret []byte
}

// NewService creates an auth service signing tokens with the given secret.
func NewService(users UserStore, secret string) *Service {
	return &Service{users: users, secret: []byte(secret)}
}

// Register creates a user with a bcrypt-hashed password and returns the user
// plus a fresh token.
func (s *Service) Register(ctx context.Context, email, password, name string) (*store.User, string, error) {
	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("checking email: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, email, string(hash), name)
	if err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.issueToken(user.UserID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the password and returns the user plus a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("finding user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.UserID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *Service) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a bearer token and returns the user id it was issued to.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
