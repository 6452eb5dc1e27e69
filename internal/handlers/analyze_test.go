package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamspace-dev/codesandbox/internal/auth"
	"github.com/streamspace-dev/codesandbox/internal/db"
)

// spec.md §8 scenario 8: an unauthenticated analyze call is rejected before
// it ever reaches the orchestrator.
func TestAnalyze_Unauthenticated_Returns401(t *testing.T) {
	gin.SetMode(gin.TestMode)

	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	tokens := auth.NewManager(auth.Config{SecretKey: "test-secret"})
	authMiddleware := auth.Middleware(tokens, db.NewUserStore(conn))

	router := gin.New()
	api := router.Group("/api")
	api.Use(authMiddleware)
	NewAnalyzeHandler(nil).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnalyze_MalformedBearer_Returns401(t *testing.T) {
	gin.SetMode(gin.TestMode)

	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	tokens := auth.NewManager(auth.Config{SecretKey: "test-secret"})
	authMiddleware := auth.Middleware(tokens, db.NewUserStore(conn))

	router := gin.New()
	api := router.Group("/api")
	api.Use(authMiddleware)
	NewAnalyzeHandler(nil).RegisterRoutes(api)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
