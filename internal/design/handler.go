package design

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/calc"
	"github.com/valveworks/valve-design-suite/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SaveDesignRequest is the JSON body for creating or updating a valve
// design.
type SaveDesignRequest struct {
	Name   string          `json:"name"`
	Inputs calc.ValveInput `json:"inputs"`
}

// designInputs is the inputs section persisted in the design document.
// NPS and class live at the top level, so they are not repeated here.
type designInputs struct {
	InternalBoreMM       float64              `json:"internal_bore_mm"`
	FaceToFaceMM         int                  `json:"face_to_face_mm"`
	TempMinC             int                  `json:"temp_min_c"`
	TempMaxC             int                  `json:"temp_max_c"`
	CorrosionAllowanceMM float64              `json:"corrosion_allowance_mm"`
	Materials            calc.ValveMaterials  `json:"materials"`
	AllowableStress      calc.AllowableStress `json:"allowable_stress"`
}

// designDocument is the JSONB document stored per valve design.
type designDocument struct {
	NPSIn       float64          `json:"nps_in"`
	ASMEClass   int              `json:"asme_class"`
	PressureMPa float64          `json:"calc_operating_pressure_mpa"`
	Inputs      designInputs     `json:"inputs"`
	Calculated  calc.ValveResult `json:"calculated"`
}

func buildDocument(in calc.ValveInput) (json.RawMessage, calc.ValveResult, error) {
	res := calc.ComputeValve(in)
	doc := designDocument{
		NPSIn:       in.NPSIn,
		ASMEClass:   in.ASMEClass,
		PressureMPa: res.OperatingPressureMPa,
		Inputs: designInputs{
			InternalBoreMM:       in.InternalBoreMM,
			FaceToFaceMM:         in.FaceToFaceMM,
			TempMinC:             in.TempMinC,
			TempMaxC:             in.TempMaxC,
			CorrosionAllowanceMM: in.CorrosionAllowanceMM,
			Materials:            in.Materials,
			AllowableStress:      in.AllowableStress,
		},
		Calculated: res,
	}
	b, err := json.Marshal(doc)
	return b, res, err
}

// Handler holds valve design and session-base HTTP handlers.
type Handler struct {
	repo  *Repo
	bases *BaseStore
}

func NewHandler(repo *Repo, bases *BaseStore) *Handler {
	return &Handler{repo: repo, bases: bases}
}

func requestActor(r *http.Request) (audit.Actor, *models.User) {
	u := r.Context().Value("user").(*models.User)
	return audit.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}, u
}

// Compute evaluates the valve data sheet without saving.
func (h *Handler) Compute(w http.ResponseWriter, r *http.Request) {
	var in calc.ValveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, calc.ComputeValve(in))
}

// Create computes and saves a new valve design.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := requestActor(r)

	var req SaveDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	doc, _, err := buildDocument(req.Inputs)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	d, err := h.repo.Create(r.Context(), actor, req.Name, doc, r.RemoteAddr)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// List returns the caller's designs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, user := requestActor(r)
	out, err := h.repo.List(r.Context(), user.ID)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []models.CalcSummary{}
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one of the caller's designs.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	_, user := requestActor(r)
	d, err := h.repo.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Update recomputes and replaces one of the caller's designs.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := requestActor(r)

	var req SaveDesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	doc, _, err := buildDocument(req.Inputs)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	d, err := h.repo.Update(r.Context(), actor, chi.URLParam(r, "id"), req.Name, doc, r.RemoteAddr)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Delete removes one of the caller's designs.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := requestActor(r)
	err := h.repo.Delete(r.Context(), actor, chi.URLParam(r, "id"), r.RemoteAddr)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "design deleted"})
}

// Activate marks one of the caller's designs as the session's design
// context for the DC sheets.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	_, user := requestActor(r)
	tok := r.Context().Value("auth_token").(string)

	d, err := h.repo.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	base := BaseFromDesign(d)
	if err := h.bases.Set(r.Context(), tok, base); err != nil {
		http.Error(w, `{"error":"session store unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, base)
}

// GetBase returns the session's resolved design context.
func (h *Handler) GetBase(w http.ResponseWriter, r *http.Request) {
	_, user := requestActor(r)
	tok := r.Context().Value("auth_token").(string)

	base, err := h.bases.Resolve(r.Context(), h.repo, tok, user.ID)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, base)
}

// PutBase sets an explicit design context for the session.
func (h *Handler) PutBase(w http.ResponseWriter, r *http.Request) {
	tok := r.Context().Value("auth_token").(string)

	var base models.Base
	if err := json.NewDecoder(r.Body).Decode(&base); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if err := h.bases.Set(r.Context(), tok, base); err != nil {
		http.Error(w, `{"error":"session store unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, base)
}

// DeleteBase clears the explicit design context, falling back to the
// latest saved design.
func (h *Handler) DeleteBase(w http.ResponseWriter, r *http.Request) {
	tok := r.Context().Value("auth_token").(string)
	if err := h.bases.Clear(r.Context(), tok); err != nil {
		http.Error(w, `{"error":"session store unavailable"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "base cleared"})
}
