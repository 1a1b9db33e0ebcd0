// Package admin serves the superadmin views: the user overview with
// each user's latest valve design, the cross-user calculation library,
// the audit log browser and CSV exports.
package admin

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/design"
	"github.com/valveworks/valve-design-suite/internal/models"
	"github.com/valveworks/valve-design-suite/internal/repo"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// DesignSummary is the headline-figure digest of a valve design.
type DesignSummary struct {
	NPSIn     float64  `json:"nps_in"`
	ASMEClass int      `json:"asme_class"`
	TMM       *float64 `json:"t_mm"`
	BoreMM    float64  `json:"bore_mm"`
	F2FMM     int      `json:"f2f_mm"`
}

// LatestDesign is a user's most recently updated valve design.
type LatestDesign struct {
	DesignID  string         `json:"design_id"`
	Name      string         `json:"name"`
	UpdatedAt time.Time      `json:"updated_at"`
	Summary   *DesignSummary `json:"summary"`
}

// UserOverviewRow is one row of the admin user overview.
type UserOverviewRow struct {
	UserID    string        `json:"user_id"`
	Username  string        `json:"username"`
	Role      string        `json:"role"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Latest    *LatestDesign `json:"latest"`
}

// Handler holds the superadmin HTTP handlers.
type Handler struct {
	db      *sql.DB
	designs *design.Repo
	repos   *repo.Registry
	audit   *audit.Logger
	exports *Exporter
}

func NewHandler(db *sql.DB, designs *design.Repo, repos *repo.Registry, auditLog *audit.Logger, exports *Exporter) *Handler {
	return &Handler{db: db, designs: designs, repos: repos, audit: auditLog, exports: exports}
}

func requestActor(r *http.Request) audit.Actor {
	u := r.Context().Value("user").(*models.User)
	return audit.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func summaryFromData(data []byte) *DesignSummary {
	var doc struct {
		NPSIn      float64 `json:"nps_in"`
		ASMEClass  int     `json:"asme_class"`
		Calculated struct {
			BoreMM float64  `json:"bore_diameter_mm"`
			F2FMM  int      `json:"face_to_face_mm"`
			TMM    *float64 `json:"body_wall_thickness_mm"`
		} `json:"calculated"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return &DesignSummary{
		NPSIn:     doc.NPSIn,
		ASMEClass: doc.ASMEClass,
		TMM:       doc.Calculated.TMM,
		BoreMM:    doc.Calculated.BoreMM,
		F2FMM:     doc.Calculated.F2FMM,
	}
}

// UsersOverview lists every user with their latest valve design, the
// freshest design first.
func (h *Handler) UsersOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.QueryContext(r.Context(), `
		SELECT u.id, u.username, u.role, u.first_name, u.last_name,
		       d.id, d.name, d.data, d.updated_at
		FROM users u
		LEFT JOIN LATERAL (
			SELECT id, name, data, updated_at
			FROM valve_designs
			WHERE user_id = u.id
			ORDER BY updated_at DESC, created_at DESC
			LIMIT 1
		) d ON true
		ORDER BY d.updated_at DESC NULLS LAST, u.username`)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := []UserOverviewRow{}
	for rows.Next() {
		var row UserOverviewRow
		var designID, name sql.NullString
		var data []byte
		var updatedAt sql.NullTime
		if err := rows.Scan(&row.UserID, &row.Username, &row.Role, &row.FirstName,
			&row.LastName, &designID, &name, &data, &updatedAt); err != nil {
			http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
			return
		}
		if designID.Valid {
			row.Latest = &LatestDesign{
				DesignID:  designID.String,
				Name:      name.String,
				UpdatedAt: updatedAt.Time,
				Summary:   summaryFromData(data),
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func auditFilterFrom(r *http.Request) models.AuditFilter {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.AuditFilter{
		Username:   q.Get("username"),
		Role:       q.Get("role"),
		EntityType: q.Get("entity_type"),
		Action:     q.Get("action"),
		Limit:      limit,
		Desc:       q.Get("order") != "asc",
	}
}

// AuditLog browses the audit trail with optional filters.
func (h *Handler) AuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audit.List(r.Context(), auditFilterFrom(r))
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListDesigns lists valve designs across all users.
func (h *Handler) ListDesigns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.designs.ListAll(r.Context(), r.URL.Query().Get("name"), limit)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []models.AdminCalcRow{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDesign fetches any user's valve design.
func (h *Handler) GetDesign(w http.ResponseWriter, r *http.Request) {
	d, err := h.designs.GetAny(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, design.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDesign removes any user's valve design.
func (h *Handler) DeleteDesign(w http.ResponseWriter, r *http.Request) {
	err := h.designs.DeleteAny(r.Context(), requestActor(r), chi.URLParam(r, "id"), r.RemoteAddr)
	if errors.Is(err, design.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "design deleted"})
}

func (h *Handler) entityRepo(w http.ResponseWriter, r *http.Request) (*repo.CalcRepo, bool) {
	cr, ok := h.repos.For(chi.URLParam(r, "entity"))
	if !ok {
		http.Error(w, `{"error":"unknown calculator"}`, http.StatusNotFound)
		return nil, false
	}
	return cr, true
}

// ListCalcs lists saved calculations of one entity across all users.
func (h *Handler) ListCalcs(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := cr.ListAll(r.Context(), r.URL.Query().Get("name"), limit)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []models.AdminCalcRow{}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetCalc fetches any user's saved calculation.
func (h *Handler) GetCalc(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	rec, err := cr.GetAny(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// DeleteCalc removes any user's saved calculation.
func (h *Handler) DeleteCalc(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	err := cr.DeleteAny(r.Context(), requestActor(r), chi.URLParam(r, "id"), r.RemoteAddr)
	if errors.Is(err, repo.ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "calculation deleted"})
}
