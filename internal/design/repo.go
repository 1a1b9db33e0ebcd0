package design

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/models"
)

// ErrNotFound is returned when a design does not exist or belongs to
// another user.
var ErrNotFound = errors.New("valve design not found")

const listLimit = 200

// Repo persists valve designs and records an audit trail for every
// mutation.
type Repo struct {
	db    *sql.DB
	audit *audit.Logger
}

func NewRepo(db *sql.DB, auditLog *audit.Logger) *Repo {
	return &Repo{db: db, audit: auditLog}
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Untitled"
	}
	return name
}

// summaryOf pulls the headline figures out of a design document for
// audit details.
func summaryOf(data json.RawMessage) map[string]any {
	var doc struct {
		NPSIn     any `json:"nps_in"`
		ASMEClass any `json:"asme_class"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return map[string]any{"nps_in": doc.NPSIn, "asme_class": doc.ASMEClass}
}

// Create saves a new design for the actor.
func (r *Repo) Create(ctx context.Context, actor audit.Actor, name string, data json.RawMessage, ip string) (*models.ValveDesign, error) {
	d := &models.ValveDesign{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO valve_designs (user_id, name, data)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, data, created_at, updated_at`,
		actor.UserID, cleanName(name), string(data)).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}

	r.audit.Record(ctx, audit.Event{
		Actor:  actor,
		Action: "create", EntityType: "valve_design",
		EntityID: d.ID, Name: d.Name,
		Details: map[string]any{"summary": summaryOf(d.Data)},
		IPAddr:  ip,
	})
	return d, nil
}

// List returns the actor's designs, most recently updated first.
func (r *Repo) List(ctx context.Context, userID string) ([]models.CalcSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM valve_designs
		WHERE user_id = $1
		ORDER BY updated_at DESC, created_at DESC
		LIMIT $2`, userID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	var out []models.CalcSummary
	for rows.Next() {
		var s models.CalcSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches one design owned by userID.
func (r *Repo) Get(ctx context.Context, userID, id string) (*models.ValveDesign, error) {
	d := &models.ValveDesign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, data, created_at, updated_at
		FROM valve_designs WHERE id = $1 AND user_id = $2`, id, userID).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	return d, nil
}

// Latest returns the user's most recently updated design, or
// ErrNotFound when they have none.
func (r *Repo) Latest(ctx context.Context, userID string) (*models.ValveDesign, error) {
	d := &models.ValveDesign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, data, created_at, updated_at
		FROM valve_designs
		WHERE user_id = $1
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1`, userID).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest design: %w", err)
	}
	return d, nil
}

// diffSections compares the old and new documents at the top level and
// reports which sections changed, plus old/new for the name.
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

// Update replaces a design's name and document, recording a section
// diff in the audit trail.
func (r *Repo) Update(ctx context.Context, actor audit.Actor, id, name string, data json.RawMessage, ip string) (*models.ValveDesign, error) {
	old, err := r.Get(ctx, actor.UserID, id)
	if err != nil {
		return nil, err
	}

	name = cleanName(name)
	d := &models.ValveDesign{}
	err = r.db.QueryRowContext(ctx, `
		UPDATE valve_designs
		SET name = $3, data = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, data, created_at, updated_at`,
		id, actor.UserID, name, string(data)).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update design: %w", err)
	}

	if changes := diffSections(old.Name, d.Name, old.Data, d.Data); len(changes) > 0 {
		r.audit.Record(ctx, audit.Event{
			Actor:  actor,
			Action: "update", EntityType: "valve_design",
			EntityID: d.ID, Name: d.Name,
			Details: map[string]any{"diff": changes},
			IPAddr:  ip,
		})
	}
	return d, nil
}

// Delete removes a design owned by the actor.
func (r *Repo) Delete(ctx context.Context, actor audit.Actor, id, ip string) error {
	old, err := r.Get(ctx, actor.UserID, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM valve_designs WHERE id = $1 AND user_id = $2`, id, actor.UserID); err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	r.audit.Record(ctx, audit.Event{
		Actor:  actor,
		Action: "delete", EntityType: "valve_design",
		EntityID: id, Name: old.Name,
		IPAddr: ip,
	})
	return nil
}

// ListAll returns designs across all users for the admin library, with
// an optional case-insensitive name filter.
func (r *Repo) ListAll(ctx context.Context, nameFilter string, limit int) ([]models.AdminCalcRow, error) {
	if limit <= 0 {
		limit = listLimit
	}
	q := `
		SELECT d.id, d.user_id, u.username, d.name, d.data, d.created_at, d.updated_at
		FROM valve_designs d
		JOIN users u ON u.id = d.user_id`
	var args []any
	if nameFilter != "" {
		args = append(args, "%"+nameFilter+"%")
		q += fmt.Sprintf(" WHERE d.name ILIKE $%d", len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(" ORDER BY d.updated_at DESC, d.created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("admin list designs: %w", err)
	}
	defer rows.Close()

	var out []models.AdminCalcRow
	for rows.Next() {
		var row models.AdminCalcRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Username, &row.Name,
			&row.Data, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan admin design: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetAny fetches a design regardless of owner. Admin use.
func (r *Repo) GetAny(ctx context.Context, id string) (*models.ValveDesign, error) {
	d := &models.ValveDesign{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, data, created_at, updated_at
		FROM valve_designs WHERE id = $1`, id).
		Scan(&d.ID, &d.UserID, &d.Name, &d.Data, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get design: %w", err)
	}
	return d, nil
}

// DeleteAny removes a design regardless of owner. Admin use.
func (r *Repo) DeleteAny(ctx context.Context, actor audit.Actor, id, ip string) error {
	old, err := r.GetAny(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM valve_designs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	r.audit.Record(ctx, audit.Event{
		Actor:  actor,
		Action: "delete", EntityType: "valve_design",
		EntityID: id, Name: old.Name,
		Details: map[string]any{"owner_user_id": old.UserID, "admin": true},
		IPAddr:  ip,
	})
	return nil
}
