// Package audit records user and admin actions to the audit_logs
// table. Logging is best effort: a failed insert is reported on the
// logger and never propagated to the caller.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/valveworks/valve-design-suite/internal/models"
)

// Actor identifies who performed an action.
type Actor struct {
	UserID   string
	Username string
	Role     string
}

// Event is one action to record. Details, when non-nil, is stored as
// JSONB.
type Event struct {
	Actor      Actor
	Action     string
	EntityType string
	EntityID   string
	Name       string
	Details    any
	IPAddr     string
}

// Logger writes audit events and serves the admin browse queries.
type Logger struct {
	db  *sql.DB
	log *zap.Logger
}

func NewLogger(db *sql.DB, log *zap.Logger) *Logger {
	return &Logger{db: db, log: log}
}

// cleanIP strips a single trailing :port and validates the remainder.
// Anything that does not parse as an address is dropped.
func cleanIP(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	if net.ParseIP(s) == nil {
		return nil
	}
	return &s
}

// Record inserts one audit row. Action and entity type are stored
// lowercased.
func (l *Logger) Record(ctx context.Context, ev Event) {
	var details any
	if ev.Details != nil {
		b, err := json.Marshal(ev.Details)
		if err != nil {
			l.log.Warn("audit details marshal failed", zap.Error(err))
		} else {
			details = string(b)
		}
	}

	var userID, entityID any
	if ev.Actor.UserID != "" {
		userID = ev.Actor.UserID
	}
	if ev.EntityID != "" {
		entityID = ev.EntityID
	}
	var ip any
	if p := cleanIP(ev.IPAddr); p != nil {
		ip = *p
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO audit_logs
			(actor_user_id, actor_username, actor_role, action, entity_type, entity_id, name, details, ip_addr)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		userID, ev.Actor.Username, strings.ToLower(ev.Actor.Role),
		strings.ToLower(ev.Action), strings.ToLower(ev.EntityType),
		entityID, ev.Name, details, ip)
	if err != nil {
		l.log.Warn("audit insert failed",
			zap.String("action", ev.Action),
			zap.String("entity_type", ev.EntityType),
			zap.Error(err))
	}
}

// List returns audit rows matching the filter, for the admin browse
// view.
func (l *Logger) List(ctx context.Context, f models.AuditFilter) ([]models.AuditEntry, error) {
	q := strings.Builder{}
	q.WriteString(`
		SELECT id, actor_user_id, actor_username, actor_role, action,
		       entity_type, entity_id, name, details, ip_addr::text, created_at
		FROM audit_logs WHERE 1=1`)
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		fmt.Fprintf(&q, " AND "+cond, len(args))
	}
	if f.Username != "" {
		add("actor_username ILIKE $%d", "%"+f.Username+"%")
	}
	if f.Role != "" {
		add("lower(actor_role) = $%d", strings.ToLower(f.Role))
	}
	if f.EntityType != "" {
		add("lower(entity_type) = $%d", strings.ToLower(f.EntityType))
	}
	if f.Action != "" {
		add("lower(action) = $%d", strings.ToLower(f.Action))
	}
	if f.Desc {
		q.WriteString(" ORDER BY created_at DESC")
	} else {
		q.WriteString(" ORDER BY created_at ASC")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 200
	}
	args = append(args, limit)
	fmt.Fprintf(&q, " LIMIT $%d", len(args))

	rows, err := l.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("audit list: %w", err)
	}
	defer rows.Close()

	var out []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		var details sql.NullString
		var ip sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.ActorUsername, &e.ActorRole,
			&e.Action, &e.EntityType, &e.EntityID, &e.Name, &details, &ip, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit scan: %w", err)
		}
		if details.Valid {
			e.Details = json.RawMessage(details.String)
		}
		if ip.Valid {
			e.IPAddr = &ip.String
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
