package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/valveworks/valve-design-suite/internal/audit"
	"github.com/valveworks/valve-design-suite/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Handler holds auth and user-management HTTP handlers.
type Handler struct {
	users  *UserStore
	tokens *TokenStore
	audit  *audit.Logger
}

func NewHandler(users *UserStore, tokens *TokenStore, auditLog *audit.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, audit: auditLog}
}

func actorFrom(u *models.User) audit.Actor {
	return audit.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil || !VerifyPassword(req.Password, user.PwdHash, user.SaltHex, user.Iterations) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	tok, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		http.Error(w, `{"error":"token creation failed"}`, http.StatusInternalServerError)
		return
	}

	h.audit.Record(r.Context(), audit.Event{
		Actor:  actorFrom(user),
		Action: "login", EntityType: "auth",
		IPAddr: r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "user": user})
}

// Logout revokes the presented token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, _ := r.Context().Value("user").(*models.User)
	tok, _ := r.Context().Value("auth_token").(string)
	if tok != "" {
		h.tokens.Revoke(r.Context(), tok)
	}
	if user != nil {
		h.audit.Record(r.Context(), audit.Event{
			Actor:  actorFrom(user),
			Action: "logout", EntityType: "auth",
			IPAddr: r.RemoteAddr,
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListUsers returns all accounts. Superadmin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates a new account. Superadmin only.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor := r.Context().Value("user").(*models.User)

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		http.Error(w, `{"error":"user already exists or invalid input"}`, http.StatusConflict)
		return
	}

	h.audit.Record(r.Context(), audit.Event{
		Actor:  actorFrom(actor),
		Action: "create", EntityType: "user",
		EntityID: user.ID, Name: user.Username,
		Details: map[string]any{"role": user.Role},
		IPAddr:  r.RemoteAddr,
	})

	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser modifies an account. Superadmin only.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor := r.Context().Value("user").(*models.User)
	id := chi.URLParam(r, "id")

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.Update(r.Context(), id, req)
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	h.audit.Record(r.Context(), audit.Event{
		Actor:  actorFrom(actor),
		Action: "update", EntityType: "user",
		EntityID: user.ID, Name: user.Username,
		Details: map[string]any{"password_changed": req.Password != nil && *req.Password != ""},
		IPAddr:  r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser removes an account and revokes its tokens. The bootstrap
// superadmin is refused. Superadmin only.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := r.Context().Value("user").(*models.User)
	id := chi.URLParam(r, "id")

	target, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
		return
	}
	h.tokens.RevokeAllForUser(r.Context(), id)

	h.audit.Record(r.Context(), audit.Event{
		Actor:  actorFrom(actor),
		Action: "delete", EntityType: "user",
		EntityID: id, Name: target.Username,
		IPAddr: r.RemoteAddr,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}
