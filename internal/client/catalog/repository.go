// Package catalog holds the in-memory product collection behind a
// repository-style interface. Mutations are optimistic: create prepends and
// delete filters locally on a successful call, with no further reconciliation
// against the backend. Isolating that behavior here keeps the views free to
// gain reconciliation later without changes.
package catalog

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/farmstand/internal/client/api"
	"github.com/dmitrijs2005/farmstand/internal/client/models"
	"github.com/google/uuid"
)

// Repository caches the product collection for one view.
type Repository struct {
	api api.Client

	mu     sync.Mutex
	items  []models.Product
	loaded bool
}

func NewRepository(c api.Client) *Repository {
	return &Repository{api: c}
}

// Load refreshes the collection wholesale. On failure the cache degrades to
// an empty list and the error is returned for the view to surface.
func (r *Repository) Load(ctx context.Context) error {
	products, err := r.api.ListProducts(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.items = nil
		r.loaded = true
		return err
	}
	r.items = products
	r.loaded = true
	return nil
}

// Loaded reports whether an initial Load has completed (successfully or not).
func (r *Repository) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Items returns a copy of the cached collection.
func (r *Repository) Items() []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Product, len(r.items))
	copy(out, r.items)
	return out
}

// Create submits the form and, on success, prepends the created product to
// the cache. The server-assigned identifier replaces the client-side
// placeholder; if the response carries no identifier the placeholder stays so
// the entry remains addressable locally.
func (r *Repository) Create(ctx context.Context, form api.ProductForm) (*models.Product, error) {
	placeholder := uuid.NewString()

	created, err := r.api.CreateProduct(ctx, form)
	if err != nil {
		return nil, err
	}
	if created.ID == "" {
		created.ID = models.FlexString(placeholder)
	}

	r.mu.Lock()
	r.items = append([]models.Product{*created}, r.items...)
	r.mu.Unlock()
	return created, nil
}

// Delete removes the product on the backend and filters it out of the cache.
// Filtering an identifier that is not cached is a no-op on the rendered list.
// On failure the cache is left untouched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.api.DeleteProduct(ctx, id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0:0]
	for _, p := range r.items {
		if p.ID.String() != id {
			kept = append(kept, p)
		}
	}
	r.items = kept
	return nil
}
