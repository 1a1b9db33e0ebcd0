package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/models"
)

func newLogger(t *testing.T) (*Logger, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLogger(db, zap.NewNop()), mock
}

func TestCleanIP(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"192.168.1.10", "192.168.1.10"},
		{"192.168.1.10:54321", "192.168.1.10"},
		{"  10.0.0.1 ", "10.0.0.1"},
		{"[::1]:8080", "::1"},
		{"2001:db8::1", "2001:db8::1"},
	}
	for _, c := range cases {
		got := cleanIP(c.in)
		require.NotNil(t, got, c.in)
		assert.Equal(t, c.want, *got, c.in)
	}

	assert.Nil(t, cleanIP(""))
	assert.Nil(t, cleanIP("not-an-ip"))
	assert.Nil(t, cleanIP("laptop.local:1234"))
}

func TestRecordLowercasesAndCleans(t *testing.T) {
	l, mock := newLogger(t)

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs("u1", "alice", "superadmin", "create", "valve_design",
			"e1", "My valve", `{"k":1}`, "10.0.0.1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	l.Record(context.Background(), Event{
		Actor:      Actor{UserID: "u1", Username: "alice", Role: "SUPERADMIN"},
		Action:     "CREATE",
		EntityType: "Valve_Design",
		EntityID:   "e1",
		Name:       "My valve",
		Details:    map[string]int{"k": 1},
		IPAddr:     "10.0.0.1:9999",
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordNeverPropagatesFailure(t *testing.T) {
	l, mock := newLogger(t)

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(assert.AnError)

	// must not panic and must swallow the error
	l.Record(context.Background(), Event{
		Actor:  Actor{Username: "alice", Role: "user"},
		Action: "login", EntityType: "auth",
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilters(t *testing.T) {
	l, mock := newLogger(t)

	rows := sqlmock.NewRows([]string{
		"id", "actor_user_id", "actor_username", "actor_role", "action",
		"entity_type", "entity_id", "name", "details", "ip_addr", "created_at",
	}).AddRow("a1", nil, "alice", "user", "update", "dc001", nil, "DC001", `{"diff":{}}`, "10.0.0.1", time.Now())

	mock.ExpectQuery("FROM audit_logs WHERE 1=1 AND actor_username ILIKE (.+) AND lower\\(action\\) = (.+) ORDER BY created_at DESC").
		WithArgs("%ali%", "update", 50).
		WillReturnRows(rows)

	entries, err := l.List(context.Background(), models.AuditFilter{
		Username: "ali", Action: "UPDATE", Limit: 50, Desc: true,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].ActorUsername)
	require.NotNil(t, entries[0].IPAddr)
	assert.Equal(t, "10.0.0.1", *entries[0].IPAddr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDefaultLimit(t *testing.T) {
	l, mock := newLogger(t)

	mock.ExpectQuery("FROM audit_logs WHERE 1=1 ORDER BY created_at ASC").
		WithArgs(200).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "actor_user_id", "actor_username", "actor_role", "action",
			"entity_type", "entity_id", "name", "details", "ip_addr", "created_at",
		}))

	entries, err := l.List(context.Background(), models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}
