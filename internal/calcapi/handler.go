// Package calcapi exposes the DC sheet calculators over HTTP: a
// stateless compute endpoint plus CRUD over saved calculations, routed
// by entity key.
package calcapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/calc"
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

// SaveCalcRequest is the JSON body for creating or updating a saved
// calculation. When Base is nil the session's resolved design context
// is snapshotted into the payload instead.
type SaveCalcRequest struct {
	Name   string          `json:"name"`
	Base   *models.Base    `json:"base"`
	Inputs json.RawMessage `json:"inputs"`
}

// EntityInfo is one row of the calculator catalogue.
type EntityInfo struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Handler holds the calculator HTTP handlers.
type Handler struct {
	repos   *repo.Registry
	bases   *design.BaseStore
	designs *design.Repo
}

func NewHandler(repos *repo.Registry, bases *design.BaseStore, designs *design.Repo) *Handler {
	return &Handler{repos: repos, bases: bases, designs: designs}
}

func requestActor(r *http.Request) (audit.Actor, *models.User) {
	u := r.Context().Value("user").(*models.User)
	return audit.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}, u
}

func (h *Handler) entityRepo(w http.ResponseWriter, r *http.Request) (*repo.CalcRepo, bool) {
	key := chi.URLParam(r, "entity")
	cr, ok := h.repos.For(key)
	if !ok {
		http.Error(w, `{"error":"unknown calculator"}`, http.StatusNotFound)
		return nil, false
	}
	return cr, true
}

// Catalogue lists the available calculators.
func (h *Handler) Catalogue(w http.ResponseWriter, r *http.Request) {
	var out []EntityInfo
	for _, key := range calc.EntityKeys() {
		entity, _ := calc.Lookup(key)
		out = append(out, EntityInfo{Key: entity.Key, Title: entity.Title})
	}
	writeJSON(w, http.StatusOK, out)
}

// Compute evaluates a calculator without saving.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}

	var inputs json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	computed, err := cr.Entity().Compute(inputs)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(computed))
}

// buildPayload evaluates the calculator and assembles the persisted
// {base, inputs, computed} envelope.
func (h *Handler) buildPayload(r *http.Request, entity calc.Entity, req SaveCalcRequest) (json.RawMessage, *models.Base, error) {
	base := req.Base
	if base == nil {
		_, user := requestActor(r)
		tok, _ := r.Context().Value("auth_token").(string)
		resolved, err := h.bases.Resolve(r.Context(), h.designs, tok, user.ID)
		if err != nil {
			return nil, nil, err
		}
		base = &resolved
	}

	computed, err := entity.Compute(req.Inputs)
	if err != nil {
		return nil, nil, err
	}

	inputs := req.Inputs
	if len(inputs) == 0 {
		inputs = json.RawMessage(`{}`)
	}
	payload, err := json.Marshal(models.CalcPayload{
		Base:     *base,
		Inputs:   inputs,
		Computed: computed,
	})
	return payload, base, err
}

// Create computes and saves a new calculation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	actor, _ := requestActor(r)

	var req SaveCalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	payload, base, err := h.buildPayload(r, cr.Entity(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var designID *string
	if base.DesignID != "" {
		designID = &base.DesignID
	}

	rec, err := cr.Create(r.Context(), actor, req.Name, designID, payload, r.RemoteAddr)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// List returns the caller's saved calculations for one entity.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	_, user := requestActor(r)

	out, err := cr.List(r.Context(), user.ID)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []models.CalcSummary{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one of the caller's saved calculations.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	_, user := requestActor(r)

	rec, err := cr.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
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

// Update recomputes and replaces one of the caller's saved
// calculations.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	actor, _ := requestActor(r)

	var req SaveCalcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	payload, _, err := h.buildPayload(r, cr.Entity(), req)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rec, err := cr.Update(r.Context(), actor, chi.URLParam(r, "id"), req.Name, payload, r.RemoteAddr)
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

// Delete removes one of the caller's saved calculations.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	cr, ok := h.entityRepo(w, r)
	if !ok {
		return
	}
	actor, _ := requestActor(r)

	err := cr.Delete(r.Context(), actor, chi.URLParam(r, "id"), r.RemoteAddr)
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
