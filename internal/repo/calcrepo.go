// Package repo persists the DC sheet calculations. One CalcRepo is
// instantiated per registered entity; all of them share the same row
// shape over their own table.
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/calc"
	"github.com/valveworks/valve-design-suite/internal/models"
)

// ErrNotFound is returned when a calculation does not exist or belongs
// to another user.
var ErrNotFound = errors.New("calculation not found")

const listLimit = 200

// CalcRepo is the generic store for one calculation entity.
type CalcRepo struct {
	entity calc.Entity
	db     *sql.DB
	audit  *audit.Logger
}

func NewCalcRepo(entity calc.Entity, db *sql.DB, auditLog *audit.Logger) *CalcRepo {
	return &CalcRepo{entity: entity, db: db, audit: auditLog}
}

// Entity returns the entity this repo serves.
func (r *CalcRepo) Entity() calc.Entity { return r.entity }

func (r *CalcRepo) cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return strings.ToUpper(r.entity.Key)
	}
	return name
}

// baseSummary pulls the headline figures out of a saved payload for
// audit details.
func baseSummary(data json.RawMessage) map[string]any {
	var doc struct {
		Base struct {
			NPSIn     any `json:"nps_in"`
			ASMEClass any `json:"asme_class"`
		} `json:"base"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return map[string]any{"nps_in": doc.Base.NPSIn, "asme_class": doc.Base.ASMEClass}
}

// Create saves a new calculation, optionally linked to a valve design.
func (r *CalcRepo) Create(ctx context.Context, actor audit.Actor, name string, designID *string, data json.RawMessage, ip string) (*models.CalcRecord, error) {
	rec := &models.CalcRecord{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO `+r.entity.Table+` (user_id, design_id, name, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, design_id, name, data, created_at, updated_at`,
		actor.UserID, designID, r.cleanName(name), string(data)).
		Scan(&rec.ID, &rec.UserID, &rec.DesignID, &rec.Name, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", r.entity.Key, err)
	}

	r.audit.Record(ctx, audit.Event{
		Actor:  actor,
		Action: "create", EntityType: r.entity.Key,
		EntityID: rec.ID, Name: rec.Name,
		Details: map[string]any{"summary": baseSummary(rec.Data)},
		IPAddr:  ip,
	})
	return rec, nil
}

// List returns the user's saved calculations, most recently updated
// first.
func (r *CalcRepo) List(ctx context.Context, userID string) ([]models.CalcSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM `+r.entity.Table+`
		WHERE user_id = $1
		ORDER BY updated_at DESC, created_at DESC
		LIMIT $2`, userID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.entity.Key, err)
	}
	defer rows.Close()

	var out []models.CalcSummary
	for rows.Next() {
		var s models.CalcSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.entity.Key, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches one calculation owned by userID.
func (r *CalcRepo) Get(ctx context.Context, userID, id string) (*models.CalcRecord, error) {
	rec := &models.CalcRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, design_id, name, data, created_at, updated_at
		FROM `+r.entity.Table+` WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&rec.ID, &rec.UserID, &rec.DesignID, &rec.Name, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.entity.Key, err)
	}
	return rec, nil
}

// diffSections reports the changed top-level payload sections and the
// old/new name.
func diffSections(oldName, newName string, oldData, newData json.RawMessage) map[string]any {
	changes := map[string]any{}
	if oldName != newName {
		changes["name"] = map[string]string{"old": oldName, "new": newName}
	}
	var oldDoc, newDoc map[string]json.RawMessage
	json.Unmarshal(oldData, &oldDoc)
	json.Unmarshal(newData, &newDoc)

	sections := map[string]any{}
	for key, newVal := range newDoc {
		if oldVal, ok := oldDoc[key]; !ok || string(oldVal) != string(newVal) {
			sections[key] = map[string]bool{"changed": true}
		}
	}
	for key := range oldDoc {
		if _, ok := newDoc[key]; !ok {
			sections[key] = map[string]bool{"changed": true}
		}
	}
	if len(sections) > 0 {
		changes["data"] = sections
	}
	return changes
}

// Update replaces a calculation's name and payload, recording a
// section diff in the audit trail.
func (r *CalcRepo) Update(ctx context.Context, actor audit.Actor, id, name string, data json.RawMessage, ip string) (*models.CalcRecord, error) {
	old, err := r.Get(ctx, actor.UserID, id)
	if err != nil {
		return nil, err
	}

	rec := &models.CalcRecord{}
	err = r.db.QueryRowContext(ctx, `
		UPDATE `+r.entity.Table+`
		SET name = $3, data = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, design_id, name, data, created_at, updated_at`,
		id, actor.UserID, r.cleanName(name), string(data)).
		Scan(&rec.ID, &rec.UserID, &rec.DesignID, &rec.Name, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", r.entity.Key, err)
	}

	if changes := diffSections(old.Name, rec.Name, old.Data, rec.Data); len(changes) > 0 {
		r.audit.Record(ctx, audit.Event{
			Actor:  actor,
			Action: "update", EntityType: r.entity.Key,
			EntityID: rec.ID, Name: rec.Name,
			Details: map[string]any{"diff": changes},
			IPAddr:  ip,
		})
	}
	return rec, nil
}

// Delete removes a calculation owned by the actor.
func (r *CalcRepo) Delete(ctx context.Context, actor audit.Actor, id, ip string) error {
	old, err := r.Get(ctx, actor.UserID, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM `+r.entity.Table+` WHERE id = $1 AND user_id = $2`, id, actor.UserID); err != nil {
		return fmt.Errorf("delete %s: %w", r.entity.Key, err)
	}
	r.audit.Record(ctx, audit.Event{
		Actor:  actor,
		Action: "delete", EntityType: r.entity.Key,
		EntityID: id, Name: old.Name,
		IPAddr: ip,
	})
	return nil
}

// ListAll returns calculations across all users for the admin library,
// with an optional case-insensitive name filter.
func (r *CalcRepo) ListAll(ctx context.Context, nameFilter string, limit int) ([]models.AdminCalcRow, error) {
	if limit <= 0 {
		limit = listLimit
	}
	q := `
		SELECT c.id, c.user_id, u.username, c.name, c.data, c.created_at, c.updated_at
		FROM ` + r.entity.Table + ` c
		JOIN users u ON u.id = c.user_id`
	var args []any
	if nameFilter != "" {
		args = append(args, "%"+nameFilter+"%")
		q += fmt.Sprintf(" WHERE c.name ILIKE $%d", len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY c.updated_at DESC, c.created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("admin list %s: %w", r.entity.Key, err)
	}
	defer rows.Close()

	var out []models.AdminCalcRow
	for rows.Next() {
		var row models.AdminCalcRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Username, &row.Name,
			&row.Data, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan admin %s: %w", r.entity.Key, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetAny fetches a calculation regardless of owner. Admin use.
func (r *CalcRepo) GetAny(ctx context.Context, id string) (*models.CalcRecord, error) {
	rec := &models.CalcRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, design_id, name, data, created_at, updated_at
		FROM `+r.entity.Table+` WHERE id = $1`, id).
		Scan(&rec.ID, &rec.UserID, &rec.DesignID, &rec.Name, &rec.Data, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", r.entity.Key, err)
	}
	return rec, nil
}

// DeleteAny removes a calculation regardless of owner. Admin use.
func (r *CalcRepo) DeleteAny(ctx context.Context, actor audit.Actor, id, ip string) error {
	old, err := r.GetAny(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+r.entity.Table+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", r.entity.Key, err)
	}
	r.audit.Record(ctx, audit.Event{
		Actor:  actor,
		Action: "delete", EntityType: r.entity.Key,
		EntityID: id, Name: old.Name,
		Details: map[string]any{"owner_user_id": old.UserID, "admin": true},
		IPAddr:  ip,
	})
	return nil
}

// Registry holds one CalcRepo per registered entity.
type Registry struct {
	repos map[string]*CalcRepo
}

// NewRegistry builds repos for every registered entity.
func NewRegistry(db *sql.DB, auditLog *audit.Logger) *Registry {
	repos := make(map[string]*CalcRepo, len(calc.EntityKeys()))
	for _, key := range calc.EntityKeys() {
		entity, _ := calc.Lookup(key)
		repos[key] = NewCalcRepo(entity, db, auditLog)
	}
	return &Registry{repos: repos}
}

// For returns the repo for an entity key.
func (r *Registry) For(key string) (*CalcRepo, bool) {
	repo, ok := r.repos[key]
	return repo, ok
}
