package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamspace-dev/codesandbox/internal/blob"
	"github.com/streamspace-dev/codesandbox/internal/cache"
	"github.com/streamspace-dev/codesandbox/internal/db"
)

func newSubmissionsTestRouter(t *testing.T, userID int64) (*gin.Engine, sqlmock.Sqlmock, *blob.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	store, err := blob.NewStore(t.TempDir())
	require.NoError(t, err)

	noopCache, err := cache.NewCache(cache.Config{Enabled: false})
	require.NoError(t, err)

	handler := NewSubmissionsHandler(db.NewSubmissionStore(conn), store, noopCache)

	router := gin.New()
	api := router.Group("/api")
	api.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	handler.RegisterRoutes(api)

	return router, mock, store
}

// spec.md §8 scenario 7: listing returns newest-first.
func TestSubmissionsList_NewestFirst(t *testing.T) {
	router, mock, _ := newSubmissionsTestRouter(t, 1)

	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "language", "created_at", "file_name"}).
		AddRow(2, "python", newer, "b.py").
		AddRow(1, "python", older, "a.py")
	mock.ExpectQuery("SELECT (.+) FROM code_submissions").WithArgs(int64(1)).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Less(t, indexOf(body, `"id":2`), indexOf(body, `"id":1`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// spec.md §8 law: a submission owned by user A is invisible to user B,
// returning not_found (404) rather than forbidden.
func TestSubmissionsGet_NotOwnedByCaller_Returns404(t *testing.T) {
	router, mock, _ := newSubmissionsTestRouter(t, 2)

	mock.ExpectQuery("SELECT (.+) FROM code_submissions").
		WithArgs(int64(1), int64(2)).
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// spec.md §8: round-trip fidelity — a subsequent GET returns the exact
// bytes of the submitted code.
func TestSubmissionsGet_RoundTripsStoredCode(t *testing.T) {
	router, mock, store := newSubmissionsTestRouter(t, 1)

	const source = "print('Hello, World!')\n"
	path, err := store.Write("a.py", []byte(source))
	require.NoError(t, err)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "language", "file_path", "file_name", "analysis_result", "created_at"}).
		AddRow(1, 1, "python", path, "a.py", `{"errors":[],"suggestions":[],"optimizations":[],"output":"","code_output":"","execution_success":false,"quality_metrics":{"cyclomatic_complexity":0,"time_complexity":"","space_complexity":"","overall_score":0,"lines_of_code":0}}`, now)
	mock.ExpectQuery("SELECT (.+) FROM code_submissions").WithArgs(int64(1), int64(1)).WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/api/submissions/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":1`)
	assert.Contains(t, w.Body.String(), source[:len(source)-1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
