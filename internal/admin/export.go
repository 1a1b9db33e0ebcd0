package admin

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ObjectStore archives a copy of every export and serves the archive
// back.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Remove(ctx context.Context, key string) error
}

// Exporter renders CSV exports and keeps an archive copy in object
// storage. The archive is best effort.
type Exporter struct {
	files ObjectStore
	log   *zap.Logger
}

func NewExporter(files ObjectStore, log *zap.Logger) *Exporter {
	return &Exporter{files: files, log: log}
}

func (e *Exporter) serve(w http.ResponseWriter, r *http.Request, kind string, header []string, records [][]string) {
	buf := &bytes.Buffer{}
	cw := csv.NewWriter(buf)
	cw.Write(header)
	cw.WriteAll(records)
	cw.Flush()
	if err := cw.Error(); err != nil {
		http.Error(w, `{"error":"export failed"}`, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", kind, time.Now().UTC().Format("20060102T150405Z"))
	if e.files != nil {
		key := fmt.Sprintf("exports/%s/%s", kind, filename)
		if err := e.files.Upload(r.Context(), key, buf.Bytes(), "text/csv"); err != nil {
			e.log.Warn("export archive failed", zap.String("key", key), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(buf.Bytes())
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	buf := &bytes.Buffer{}
	if err := json.Compact(buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ExportDesigns streams all valve designs as CSV.
func (h *Handler) ExportDesigns(w http.ResponseWriter, r *http.Request) {
	rows, err := h.designs.ListAll(r.Context(), r.URL.Query().Get("name"), 0)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.ID, row.Username, row.Name,
			compactJSON(row.Data),
			row.CreatedAt.UTC().Format(time.RFC3339),
			row.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	h.exports.serve(w, r, "valve_designs",
		[]string{"id", "username", "name", "data", "created_at", "updated_at"}, records)
}

// ExportCalcs streams one entity's saved calculations as CSV.
func (h *Handler) ExportCalcs(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	rows, err := cr.ListAll(r.Context(), r.URL.Query().Get("name"), 0)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.ID, row.Username, row.Name,
			compactJSON(row.Data),
			row.CreatedAt.UTC().Format(time.RFC3339),
			row.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	h.exports.serve(w, r, cr.Entity().Table,
		[]string{"id", "username", "name", "data", "created_at", "updated_at"}, records)
}

// ExportAudit streams the filtered audit trail as CSV.
func (h *Handler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	filter := auditFilterFrom(r)
	if filter.Limit <= 0 {
		filter.Limit = 10000
	}
	entries, err := h.audit.List(r.Context(), filter)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		var entityID, ip string
		if e.EntityID != nil {
			entityID = *e.EntityID
		}
		if e.IPAddr != nil {
			ip = *e.IPAddr
		}
		records = append(records, []string{
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.ActorUsername, e.ActorRole, e.Action, e.EntityType,
			entityID, e.Name, compactJSON(e.Details), ip,
		})
	}
	h.exports.serve(w, r, "audit_logs",
		[]string{"created_at", "username", "role", "action", "entity_type", "entity_id", "name", "details", "ip_addr"}, records)
}

// ListArchive lists the archived export files, optionally under a kind
// prefix.
func (h *Handler) ListArchive(w http.ResponseWriter, r *http.Request) {
	prefix := "exports/"
	if kind := r.URL.Query().Get("kind"); kind != "" {
		prefix += kind + "/"
	}
	keys, err := h.exports.files.List(r.Context(), prefix)
	if err != nil {
		http.Error(w, `{"error":"archive unavailable"}`, http.StatusBadGateway)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, keys)
}

// DownloadArchive streams one archived export file back.
func (h *Handler) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" || !strings.HasPrefix(key, "exports/") {
		http.Error(w, `{"error":"key must name an archived export"}`, http.StatusBadRequest)
		return
	}
	data, contentType, err := h.exports.files.Download(r.Context(), key)
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if contentType == "" {
		contentType = "text/csv"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(key)+`"`)
	w.Write(data)
}

// DeleteArchive removes one archived export file.
func (h *Handler) DeleteArchive(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" || !strings.HasPrefix(key, "exports/") {
		http.Error(w, `{"error":"key must name an archived export"}`, http.StatusBadRequest)
		return
	}
	if err := h.exports.files.Remove(r.Context(), key); err != nil {
		http.Error(w, `{"error":"archive unavailable"}`, http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "archive deleted"})
}
