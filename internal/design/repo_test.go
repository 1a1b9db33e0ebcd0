package design

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/models"
)

func newRepo(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepo(db, audit.NewLogger(db, zap.NewNop())), mock
}

func designRows(d models.ValveDesign) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "name", "data", "created_at", "updated_at"}).
		AddRow(d.ID, d.UserID, d.Name, []byte(d.Data), d.CreatedAt, d.UpdatedAt)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Untitled", cleanName("  "))
	assert.Equal(t, "2in CL600", cleanName(" 2in CL600 "))
}

func TestDesignCreate(t *testing.T) {
	repo, mock := newRepo(t)
	actor := audit.Actor{UserID: uuid.NewString(), Username: "alice", Role: "user"}
	data := json.RawMessage(`{"nps_in":2,"asme_class":600}`)

	mock.ExpectQuery("INSERT INTO valve_designs").
		WithArgs(actor.UserID, "Untitled", string(data)).
		WillReturnRows(designRows(models.ValveDesign{
			ID: "d1", UserID: actor.UserID, Name: "Untitled", Data: data,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	d, err := repo.Create(context.Background(), actor, "", data, "10.0.0.1:1")
	require.NoError(t, err)
	assert.Equal(t, "d1", d.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDesignList(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`FROM valve_designs\s+WHERE user_id = \$1\s+ORDER BY updated_at DESC, created_at DESC\s+LIMIT \$2`).
		WithArgs("u1", 200).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("d1", "A", time.Now(), time.Now()).
			AddRow("d2", "B", time.Now(), time.Now()))

	out, err := repo.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDesignGetNotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM valve_designs WHERE id = (.+) AND user_id").
		WithArgs("d1", "u1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "u1", "d1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiffSections(t *testing.T) {
	oldData := json.RawMessage(`{"nps_in":2,"inputs":{"a":1},"calculated":{"x":1}}`)
	newData := json.RawMessage(`{"nps_in":2,"inputs":{"a":2},"calculated":{"x":1}}`)

	changes := diffSections("Old", "New", oldData, newData)
	assert.Equal(t, map[string]string{"old": "Old", "new": "New"}, changes["name"])
	sections := changes["data"].(map[string]any)
	assert.Contains(t, sections, "inputs")
	assert.NotContains(t, sections, "calculated")
	assert.NotContains(t, sections, "nps_in")
}

func TestDiffSectionsNoChanges(t *testing.T) {
	data := json.RawMessage(`{"nps_in":2}`)
	assert.Empty(t, diffSections("Same", "Same", data, data))
}

func TestBaseFromDesign(t *testing.T) {
	d := &models.ValveDesign{
		ID: "d1", Name: "2in CL600",
		Data: json.RawMessage(`{
			"nps_in": 2, "asme_class": 600,
			"calc_operating_pressure_mpa": 10.21,
			"calculated": {"bore_diameter_mm": 51.0}
		}`),
	}
	base := BaseFromDesign(d)
	assert.Equal(t, "d1", base.DesignID)
	assert.Equal(t, "2in CL600", base.DesignName)
	assert.Equal(t, 2.0, base.NPSIn)
	assert.Equal(t, 600, base.ASMEClass)
	assert.Equal(t, 51.0, base.BoreMM)
	assert.Equal(t, 10.21, base.PressureMPa)
}

func TestResolveFallsBackToLatestThenDefault(t *testing.T) {
	repo, mock := newRepo(t)
	bases := NewBaseStore(nil)

	mock.ExpectQuery(`FROM valve_designs\s+WHERE user_id = \$1\s+ORDER BY updated_at DESC, created_at DESC\s+LIMIT 1`).
		WithArgs("u1").
		WillReturnError(sql.ErrNoRows)

	base, err := bases.Resolve(context.Background(), repo, "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, DefaultBase, base)
}

func TestResolveUsesLatestDesign(t *testing.T) {
	repo, mock := newRepo(t)
	bases := NewBaseStore(nil)

	mock.ExpectQuery(`FROM valve_designs\s+WHERE user_id = \$1\s+ORDER BY updated_at DESC, created_at DESC\s+LIMIT 1`).
		WithArgs("u1").
		WillReturnRows(designRows(models.ValveDesign{
			ID: "d9", UserID: "u1", Name: "Latest",
			Data:      json.RawMessage(`{"nps_in":3,"asme_class":300,"calc_operating_pressure_mpa":5.17,"calculated":{"bore_diameter_mm":78}}`),
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))

	base, err := bases.Resolve(context.Background(), repo, "tok", "u1")
	require.NoError(t, err)
	assert.Equal(t, "d9", base.DesignID)
	assert.Equal(t, 78.0, base.BoreMM)
}
