package calcapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/design"
	"github.com/valveworks/valve-design-suite/internal/models"
	"github.com/valveworks/valve-design-suite/internal/repo"
)

func newTestRouter(t *testing.T) (*chi.Mux, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	auditLog := audit.NewLogger(db, zap.NewNop())
	designs := design.NewRepo(db, auditLog)
	h := NewHandler(repo.NewRegistry(db, auditLog), design.NewBaseStore(nil), designs)

	withUser := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), "user", &models.User{
				ID: "u1", Username: "alice", Role: models.RoleUser,
			})
			ctx = context.WithValue(ctx, "auth_token", "tok")
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}

	r := chi.NewRouter()
	r.Get("/api/calcs", withUser(h.Catalogue))
	r.Post("/api/calcs/{entity}/compute", withUser(h.Compute))
	r.Post("/api/calcs/{entity}", withUser(h.Create))
	r.Get("/api/calcs/{entity}", withUser(h.List))
	return r, mock
}

func TestCatalogue(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/calcs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []EntityInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out, 16)
	assert.Equal(t, "dc001", out[0].Key)
}

func TestComputeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"P_MPa":10.21,"Dt_mm":50,"Db_mm":60,"Hb_mm":30,"MABS_MPa":137.9}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/calcs/dc003/compute", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Verdict string `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "VERIFIED", res.Verdict)
}

func TestComputeUnknownEntity(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/calcs/dc999/compute", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestComputeBadInputs(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/calcs/dc003/compute", strings.NewReader(`{"P_MPa":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSavesSnapshot(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("INSERT INTO dc003_calcs").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "design_id", "name", "data", "created_at", "updated_at"}).
			AddRow("c1", "u1", nil, "DC003", []byte(`{}`), time.Now(), time.Now()))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{
		"name": "DC003",
		"base": {"nps_in":2,"asme_class":600,"bore_diameter_mm":51,"operating_pressure_mpa":10.21},
		"inputs": {"P_MPa":10.21,"Dt_mm":50,"Db_mm":60,"Hb_mm":30,"MABS_MPa":137.9}
	}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/api/calcs/dc003", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEmpty(t *testing.T) {
	r, mock := newTestRouter(t)

	mock.ExpectQuery("FROM dc011_calcs").
		WithArgs("u1", 200).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/calcs/dc011", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())
}
