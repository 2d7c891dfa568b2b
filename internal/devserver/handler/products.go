package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/farmstand/internal/common"
	"github.com/dmitrijs2005/farmstand/internal/devserver/media"
	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/products"
	"github.com/dmitrijs2005/farmstand/internal/devserver/repositories/users"
	"github.com/dmitrijs2005/farmstand/internal/logging"
)

// maxUploadBytes caps multipart parsing memory for product uploads.
const maxUploadBytes = 16 << 20

// productJSON is the wire shape of a catalog entry, including the
// denormalized seller attribution the client's fallback chains read.
type productJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	Seller      string `json:"seller,omitempty"`
	SellerName  string `json:"seller_name,omitempty"`
	SellerEmail string `json:"seller_email,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type ProductsHandler struct {
	repo  products.Repository
	users users.Repository
	media *media.Store
	log   logging.Logger
}

func NewProductsHandler(repo products.Repository, userRepo users.Repository, store *media.Store, log logging.Logger) *ProductsHandler {
	return &ProductsHandler{repo: repo, users: userRepo, media: store, log: log}
}

func (h *ProductsHandler) render(p models.Product) productJSON {
	out := productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Seller:      p.Seller,
		SellerName:  p.SellerName,
		SellerEmail: p.SellerEmail,
	}
	if p.ImagePath != "" {
		out.ImageURL = "/media/" + p.ImagePath
	}
	if !p.CreatedAt.IsZero() {
		out.CreatedAt = p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")
	}
	return out
}

// List responds with the pagination envelope; the hosted backend does, so
// the devserver keeps the client's unwrap path honest.
// GET /api/products/
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context())
	if err != nil {
		h.log.Error(r.Context(), "listing products failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	results := make([]productJSON, 0, len(items))
	for _, p := range items {
		results = append(results, h.render(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// Get responds with a single product.
// GET /api/products/{id}/
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, h.render(*p))
}

// parseForm extracts the multipart fields shared by create and update.
func (h *ProductsHandler) parseForm(w http.ResponseWriter, r *http.Request, p *models.Product) bool {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return false
	}

	p.Name = strings.TrimSpace(r.FormValue("name"))
	p.Price = strings.TrimSpace(r.FormValue("price"))
	p.Description = strings.TrimSpace(r.FormValue("description"))

	if p.Name == "" || p.Description == "" {
		writeError(w, http.StatusBadRequest, "name and description are required")
		return false
	}
	if p.Price == "" {
		writeError(w, http.StatusBadRequest, "price is required")
		return false
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image upload")
		return false
	}
	defer file.Close()

	imagePath, thumbPath, err := h.media.Save(file, header.Filename)
	if err != nil {
		h.log.Error(r.Context(), "storing image failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return false
	}
	p.ImagePath = imagePath
	p.ThumbPath = thumbPath
	return true
}

// Create inserts a product attributed to the authenticated seller.
// POST /api/products/
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	p := models.Product{ID: uuid.NewString(), Seller: uid}
	if !h.parseForm(w, r, &p) {
		return
	}

	if u, err := h.users.GetByID(r.Context(), uid); err == nil {
		p.SellerName = u.DisplayName
		p.SellerEmail = u.Email
	}

	if err := h.repo.Create(r.Context(), &p); err != nil {
		h.log.Error(r.Context(), "creating product failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, h.render(p))
}

// Update replaces the mutable fields of an owned product.
// PUT /api/products/{id}/
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing.Seller != uid {
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}

	updated := *existing
	if !h.parseForm(w, r, &updated) {
		return
	}
	if updated.ImagePath == "" {
		updated.ImagePath = existing.ImagePath
		updated.ThumbPath = existing.ThumbPath
	}

	if err := h.repo.Update(r.Context(), &updated); err != nil {
		h.log.Error(r.Context(), "updating product failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, h.render(updated))
}

// Delete removes an owned product. Ownership is enforced here, not in the
// client: the client only hides the affordance.
// DELETE /api/products/{id}/
func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := UserIDFromContext(r.Context())
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}

	p, err := h.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Not found.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p.Seller != uid {
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action.")
		return
	}

	if err := h.repo.Delete(r.Context(), p.ID); err != nil {
		h.log.Error(r.Context(), "deleting product failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
