package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/models"
)

func newAuthHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHandler(
		NewUserStore(db),
		NewTokenStore(db, nil, zap.NewNop()),
		audit.NewLogger(db, zap.NewNop()),
	), mock
}

func TestLogin(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, salt, err := HashPassword("Super@123")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRows(models.User{
			ID: "u1", Username: "alice", PwdHash: hash, SaltHex: salt,
			Iterations: PBKDF2Iterations, Role: models.RoleUser, CreatedAt: time.Now(),
		}))
	mock.ExpectExec("INSERT INTO auth_tokens").
		WithArgs(sqlmock.AnyArg(), "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"Super@123"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out.Token, 32)
	assert.Equal(t, "alice", out.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, salt, err := HashPassword("Super@123")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRows(models.User{
			ID: "u1", Username: "alice", PwdHash: hash, SaltHex: salt,
			Iterations: PBKDF2Iterations, Role: models.RoleUser, CreatedAt: time.Now(),
		}))

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"username":"alice","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("ghost").
		WillReturnError(ErrUserNotFound)

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"username":"ghost","password":"pw"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBadBody(t *testing.T) {
	h, _ := newAuthHandler(t)

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest("POST", "/api/auth/login", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
