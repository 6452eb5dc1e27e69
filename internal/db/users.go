package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/streamspace-dev/codesandbox/internal/models"
)

// maxBcryptInputBytes is bcrypt's input ceiling; longer passwords are
// silently clipped before hashing (spec §4.A, documented behavior).
const maxBcryptInputBytes = 72

// UserStore handles persistence for the User entity.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(conn *sql.DB) *UserStore {
	return &UserStore{db: conn}
}

// CreateUser hashes the password (clipped to 72 bytes) and inserts a new
// active user. A unique-constraint violation comes back as the raw
// database error; callers should pre-check existence to produce the
// documented 400 "already registered" message.
func (s *UserStore) CreateUser(ctx context.Context, username, password, email, fullName string) (*models.User, error) {
	if len(password) > maxBcryptInputBytes {
		password = password[:maxBcryptInputBytes]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	var emailArg interface{}
	if email != "" {
		emailArg = email
	}

	query := `
		INSERT INTO users (username, email, full_name, password_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	if err := s.db.QueryRowContext(ctx, query, username, emailArg, fullName, user.PasswordHash, user.Active, user.CreatedAt).
		Scan(&user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByUsername returns the user with password_hash populated (needed by
// login verification), or nil if no such user exists.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanOne(ctx, "WHERE username = $1", username)
}

// GetByEmail returns the user with the given email, or nil.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(ctx, "WHERE email = $1", email)
}

func (s *UserStore) scanOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `
		SELECT id, username, email, full_name, password_hash, active, created_at, last_login
		FROM users
		` + where

	var user models.User
	var email, fullName sql.NullString
	var lastLogin sql.NullTime

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &email, &fullName, &user.PasswordHash,
		&user.Active, &user.CreatedAt, &lastLogin,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Email = email.String
	user.FullName = fullName.String
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

// UpdateLastLogin bumps last_login to now in a single statement of its
// own. It does not run in a transaction with the caller's token minting:
// a later minting failure leaves the bumped timestamp in place.
func (s *UserStore) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, time.Now().UTC(), userID)
	return err
}

// VerifyPassword checks a plaintext password (clipped the same way as
// CreateUser) against the stored bcrypt hash.
func VerifyPassword(hash, password string) bool {
	if len(password) > maxBcryptInputBytes {
		password = password[:maxBcryptInputBytes]
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
