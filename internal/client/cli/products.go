package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/farmstand/internal/client/api"
	"github.com/dmitrijs2005/farmstand/internal/client/catalog"
	"github.com/dmitrijs2005/farmstand/internal/client/models"
)

// Products renders the management view: the full catalog with delete
// affordances on the caller's own listings. While the list is being fetched a
// loading indicator is shown; a fetch failure degrades to an empty list with
// an inline error.
func (a *App) Products(ctx context.Context) error {
	printlnFn("Loading products...")
	if err := a.catalog.Load(ctx); err != nil {
		printlnFn("Failed to load products")
		a.log.Warn(ctx, "loading products failed", "err", err)
	}
	a.renderCatalog(a.catalog, true)
	return nil
}

// Shop renders the public browse view without management affordances. It owns
// its collection separately from the management view.
func (a *App) Shop(ctx context.Context) error {
	printlnFn("Loading products...")
	if err := a.shopCatalog.Load(ctx); err != nil {
		printlnFn("Failed to load products")
		a.log.Warn(ctx, "loading products failed", "err", err)
	}
	a.renderCatalog(a.shopCatalog, false)
	return nil
}

func (a *App) renderCatalog(c *catalog.Repository, management bool) {
	items := c.Items()
	if len(items) == 0 {
		printlnFn("No products yet.")
		return
	}

	uid := ""
	if s := a.session.Current(); s != nil {
		uid = s.UID
	}

	for _, p := range items {
		line := fmt.Sprintf("%s  %s  $%s", p.ID, p.Name, p.Price)
		if desc := strings.TrimSpace(p.Description); desc != "" {
			line += "  - " + desc
		}
		// The delete affordance is only shown to the owning seller; the
		// backend enforces ownership regardless.
		if management && uid != "" && p.Seller.String() == uid {
			line += "  [yours: delete <id>]"
		}
		printlnFn(line)
	}
}

// Add drives the create-product modal: collect name, price, description and
// an optional image (file path or data URL), validate, and submit. On failure
// the form values are kept as defaults for the next attempt.
func (a *App) Add(ctx context.Context) error {
	draft := a.draft
	if draft == nil {
		draft = &productForm{}
	}

	var err error
	if draft.Name, err = GetTextDefault(a.reader, "Product name", draft.Name, os.Stdout); err != nil {
		return err
	}
	if draft.Price, err = GetTextDefault(a.reader, "Price ($)", draft.Price, os.Stdout); err != nil {
		return err
	}
	if draft.Description, err = GetTextDefault(a.reader, "Description", draft.Description, os.Stdout); err != nil {
		return err
	}
	if draft.Image, err = GetTextDefault(a.reader, "Image (file path or data URL, empty to skip)", draft.Image, os.Stdout); err != nil {
		return err
	}

	if msg := validateProductForm(draft); msg != "" {
		printlnFn(msg)
		a.draft = draft
		return nil
	}

	form := api.ProductForm{
		Name:        draft.Name,
		Price:       draft.Price,
		Description: draft.Description,
		Image:       imageSource(draft.Image),
	}

	created, err := a.catalog.Create(ctx, form)
	if err != nil {
		printlnFn("Failed to add product")
		a.log.Warn(ctx, "creating product failed", "err", err)
		a.draft = draft // keep entered values, modal stays open
		return nil
	}

	a.draft = nil
	printlnFn(fmt.Sprintf("Added %q (id %s)", created.Name, created.ID))
	return nil
}

// Delete removes one of the caller's products by identifier. On failure the
// rendered list is left unchanged.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter product id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.catalog.Delete(ctx, id); err != nil {
		printlnFn("Failed to delete product")
		a.log.Warn(ctx, "deleting product failed", "id", id, "err", err)
		return nil
	}
	printlnFn("Deleted.")
	return nil
}

func validateProductForm(f *productForm) string {
	if strings.TrimSpace(f.Name) == "" {
		return "Product name is required"
	}
	if !models.ValidPrice(f.Price) {
		return "Price must be a non-negative amount like 3.50"
	}
	if strings.TrimSpace(f.Description) == "" {
		return "Description is required"
	}
	return ""
}

// imageSource picks the right encoder for the entered image reference.
func imageSource(ref string) api.ImageSource {
	if ref == "" {
		return nil
	}
	if api.IsDataURL(ref) {
		return api.ImageFromDataURL(ref)
	}
	return api.ImageFromFile(ref)
}
