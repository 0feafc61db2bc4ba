package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/shopchat/internal/db"
)

// UserStore manages registered chat users.
type UserStore struct {
	db *db.DB
}

// NewUserStore creates a new user store.
func NewUserStore(database *db.DB) *UserStore {
	return &UserStore{db: database}
}

// CreateUser registers a new user. Email must be unique.
func (s *UserStore) CreateUser(ctx context.Context, email, passwordHash, name string) (*User, error) {
	u := User{
		UserID:       "user_" + uuid.New().String()[:8],
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, email, password, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.UserID, u.Email, u.PasswordHash, u.Name, u.CreatedAt, u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	u.ID, _ = res.LastInsertId()
	return &u, nil
}

// FindUserByEmail looks up a user by email. Returns nil if not found.
func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, email, password, name, created_at
		 FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.UserID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &u, nil
}

// FindUserByUserID looks up a user by its external user_id. Returns nil if not found.
func (s *UserStore) FindUserByUserID(ctx context.Context, userID string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, email, password, name, created_at
		 FROM users WHERE user_id = ?`, userID,
	).Scan(&u.ID, &u.UserID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &u, nil
}
