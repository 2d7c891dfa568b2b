package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/farmstand/internal/common"
	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/users"
	"github.com/dmitrijs2005/farmstand/internal/logging"
)

// userJSON is the wire shape of a user resource. Sellers looked up by the
// client's detail view arrive in this form.
type userJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

type UsersHandler struct {
	repo users.Repository
	log  logging.Logger
}

func NewUsersHandler(repo users.Repository, log logging.Logger) *UsersHandler {
	return &UsersHandler{repo: repo, log: log}
}

func renderUser(u models.User) userJSON {
	return userJSON{
		ID:       u.ID,
		Name:     u.DisplayName,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
		Phone:    u.Phone,
		Location: u.Location,
		Bio:      u.Bio,
	}
}

func (h *UsersHandler) respondUser(w http.ResponseWriter, r *http.Request, id string) {
	u, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		h.log.Error(r.Context(), "getting user failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, renderUser(*u))
}

// Get serves public seller lookups.
// GET /api/users/{id}/
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respondUser(w, r, chi.URLParam(r, "id"))
}

// Me serves the authenticated user's own record.
// GET /api/users/me/
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	h.respondUser(w, r, uid)
}

type profilePayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// UpdateMe updates the authenticated user's backend profile fields.
// PUT /api/users/me/
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.repo.UpdateContact(r.Context(), uid, payload.Name, payload.Phone, payload.Location, payload.Bio); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		h.log.Error(r.Context(), "updating user failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.respondUser(w, r, uid)
}

// Create registers a backend profile record. The hosted backend mirrors
// identity accounts this way; the devserver accepts it for contract parity.
// POST /api/users/
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	u := models.User{
		ID:          uuid.NewString(),
		Email:       payload.Email,
		DisplayName: payload.Name,
		PhotoURL:    payload.PhotoURL,
		Phone:       payload.Phone,
		Location:    payload.Location,
		Bio:         payload.Bio,
		// Profile-only records cannot sign in.
		PasswordHash: "!",
	}
	if err := h.repo.Create(r.Context(), &u); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		h.log.Error(r.Context(), "creating user failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, renderUser(u))
}
