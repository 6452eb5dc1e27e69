package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamspace-dev/codesandbox/internal/auth"
	"github.com/streamspace-dev/codesandbox/internal/db"
)

func newAuthTestRouter(t *testing.T) (*gin.Engine, *db.UserStore, sqlmock.Sqlmock, *auth.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	userStore := db.NewUserStore(conn)
	tokens := auth.NewManager(auth.Config{SecretKey: "test-secret"})
	authMiddleware := auth.Middleware(tokens, userStore)

	handler := NewAuthHandler(userStore, tokens)
	router := gin.New()
	noRateLimit := func(c *gin.Context) { c.Next() }
	handler.RegisterRoutes(&router.RouterGroup, authMiddleware, noRateLimit)

	return router, userStore, mock, tokens
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// spec.md §8 scenario 1: signup then login both return 200 with a bearer
// whose subject is the registered username.
func TestSignup_Success_Returns200(t *testing.T) {
	router, _, mock, _ := newAuthTestRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}))
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	w := doJSON(router, http.MethodPost, "/auth/signup", `{"username":"alice","password":"pw123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token"`)
	assert.Contains(t, w.Body.String(), `"bearer"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_Success_Returns200(t *testing.T) {
	router, _, mock, _ := newAuthTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}).
		AddRow(1, "alice", "", "", string(hash), true, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("alice").WillReturnRows(rows)
	mock.ExpectExec("UPDATE users SET last_login").WillReturnResult(sqlmock.NewResult(0, 1))

	w := doJSON(router, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw123"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alice"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_WrongPassword_Returns401(t *testing.T) {
	router, _, mock, _ := newAuthTestRouter(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}).
		AddRow(1, "alice", "", "", string(hash), true, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("alice").WillReturnRows(rows)

	w := doJSON(router, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// spec.md §8 scenario 2: duplicate signup returns 400 with a message
// mentioning "already registered", never the RFC-conventional 409.
func TestSignup_DuplicateUsername_Returns400(t *testing.T) {
	router, _, mock, _ := newAuthTestRouter(t)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}).
		AddRow(1, "alice", "", "", "hash", true, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("alice").WillReturnRows(rows)

	w := doJSON(router, http.MethodPost, "/auth/signup", `{"username":"alice","password":"pw123"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_DuplicateEmail_Returns400(t *testing.T) {
	router, _, mock, _ := newAuthTestRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}))
	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}).
		AddRow(2, "someone", "bob@example.com", "", "hash", true, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("bob@example.com").WillReturnRows(rows)

	w := doJSON(router, http.MethodPost, "/auth/signup", `{"username":"bob","password":"pw123","email":"bob@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// spec.md §8 scenario 1: Identify(bearer) resolves to the same subject
// Register/Login minted it for.
func TestMe_ValidBearer_ResolvesToSameUser(t *testing.T) {
	router, _, mock, tokens := newAuthTestRouter(t)

	token, err := tokens.GenerateToken(1, "alice")
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "username", "email", "full_name", "password_hash", "active", "created_at", "last_login"}).
		AddRow(1, "alice", "", "", "hash", true, time.Now(), nil)
	mock.ExpectQuery("SELECT (.+) FROM users").WithArgs("alice").WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alice"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_NoBearer_Returns401(t *testing.T) {
	router, _, _, _ := newAuthTestRouter(t)

	w := doJSON(router, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
