package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser_Success(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewUserStore(conn)
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@example.com", "Alice Smith", sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	user, err := store.CreateUser(ctx, "alice", "securepassword", "alice@example.com", "Alice Smith")

	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("securepassword")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_ClipsPasswordOver72Bytes(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewUserStore(conn)
	ctx := context.Background()

	longPassword := make([]byte, 100)
	for i := range longPassword {
		longPassword[i] = 'a'
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("bob", nil, "", sqlmock.AnyArg(), true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	user, err := store.CreateUser(ctx, "bob", string(longPassword), "", "")

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), longPassword[:72]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_NotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewUserStore(conn)
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}))

	user, err := store.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetByUsername_Found(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	store := NewUserStore(conn)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}).
		AddRow(1, "alice", "alice@example.com", "Alice", "hash", true, now, nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("alice").WillReturnRows(rows)

	user, err := store.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Nil(t, user.LastLogin)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(string(hash), "hunter2"))
	assert.False(t, VerifyPassword(string(hash), "wrong"))
}
