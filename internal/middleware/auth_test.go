package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/auth"
	"github.com/valveworks/valve-design-suite/internal/models"
)

func newAuthMiddleware(t *testing.T) (func(http.Handler) http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	tokens := auth.NewTokenStore(db, nil, zap.NewNop())
	users := auth.NewUserStore(db)
	return RequireAuth(tokens, users), mock
}

func expectValidSession(mock sqlmock.Sqlmock, role string) {
	mock.ExpectQuery("SELECT user_id, exp_at FROM auth_tokens").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "exp_at"}).
			AddRow("u1", time.Now().Add(time.Hour)))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "pwd_hash", "salt_hex", "iterations",
			"role", "first_name", "last_name", "created_at",
		}).AddRow("u1", "alice", "h", "s", 200000, role, "", "", time.Now()))
}

func TestRequireAuthBearerHeader(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectValidSession(mock, models.RoleUser)

	var gotUser *models.User
	var gotToken string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Context().Value("user").(*models.User)
		gotToken = r.Context().Value("auth_token").(string)
	}))

	req := httptest.NewRequest("GET", "/api/designs", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "alice", gotUser.Username)
	assert.Equal(t, "tok", gotToken)
}

func TestRequireAuthQueryParam(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectValidSession(mock, models.RoleUser)

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/designs?auth=tok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthMissingToken(t *testing.T) {
	mw, _ := newAuthMiddleware(t)

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/designs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectValidSession(mock, models.RoleUser)

	h := mw(RequireRole(models.RoleSuperadmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})))
	req := httptest.NewRequest("GET", "/api/admin/audit", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	mw, mock := newAuthMiddleware(t)
	expectValidSession(mock, models.RoleSuperadmin)

	h := mw(RequireRole(models.RoleSuperadmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	req := httptest.NewRequest("GET", "/api/admin/audit", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
