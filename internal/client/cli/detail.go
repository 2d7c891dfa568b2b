package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/dmitrijs2005/farmstand/internal/client/api"
	"github.com/dmitrijs2005/farmstand/internal/client/models"
	"github.com/dmitrijs2005/farmstand/internal/common"
)

// openURL hands a mailto:/tel: URL to the OS opener. A test seam so contact
// actions can be asserted without launching anything.
var openURL = func(u string) error {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	return exec.Command(opener, u).Start()
}

// resolveSeller assembles seller info for the detail view. Precedence: a
// backend lookup by the product's seller identifier wins; when there is no
// identifier or the lookup fails, the denormalized fields on the product
// record are used via the per-field fallback chains.
func resolveSeller(ctx context.Context, c api.Client, p models.Product) models.SellerInfo {
	if id := p.Seller.String(); id != "" {
		if u, err := c.GetUser(ctx, id); err == nil {
			return models.SellerFromUser(*u)
		}
	}
	return models.SellerFromProduct(p)
}

// contactURL builds the contact affordance target: a mailto composer when an
// email is known, a phone dialer otherwise. ok is false when the seller has
// no usable contact method.
func contactURL(s models.SellerInfo, productName string) (target string, method models.ContactMethod, ok bool) {
	method, value := s.Contact()
	switch method {
	case models.ContactEmail:
		subject := strings.ReplaceAll(url.QueryEscape("Inquiry about "+productName), "+", "%20")
		return "mailto:" + value + "?subject=" + subject, method, true
	case models.ContactPhone:
		return "tel:" + value, method, true
	default:
		return "", models.ContactNone, false
	}
}

// Show renders the product detail view: full product info, resolved seller
// block, and the contact affordance.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter product id to show", os.Stdout)
	if err != nil {
		return err
	}

	product, err := a.api.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("Product not found")
		} else {
			printlnFn("Failed to load product")
		}
		a.log.Warn(ctx, "loading product failed", "id", id, "err", err)
		return nil
	}

	printlnFn(fmt.Sprintf("%s  $%s", product.Name, product.Price))
	if product.Description != "" {
		printlnFn(product.Description)
	}
	if img := product.BestImageURL(); img != "" {
		printlnFn("Image: " + img)
	}

	printlnFn("Loading seller info...")
	seller := resolveSeller(ctx, a.api, *product)
	printlnFn("Seller: " + seller.DisplayName())
	printlnFn("Email: " + seller.DisplayEmail())
	if seller.Phone != "" {
		printlnFn("Phone: " + seller.Phone)
	}
	printlnFn("Location: " + seller.DisplayLocation())
	if seller.Bio != "" {
		printlnFn("Bio: " + seller.Bio)
	}
	printlnFn("Rating: " + seller.DisplayRating())

	answer, err := getSimpleText(a.reader, "Contact seller? (y/N)", os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		return nil
	}
	return a.contactSeller(ctx, seller, product.Name)
}

func (a *App) contactSeller(ctx context.Context, seller models.SellerInfo, productName string) error {
	target, method, ok := contactURL(seller, productName)
	if !ok {
		printlnFn("Seller contact information not available")
		return nil
	}

	if err := openURL(target); err != nil {
		// No opener on this system; printing the URL still lets the user act.
		printlnFn(target)
		a.log.Warn(ctx, "opening contact url failed", "err", err)
		return nil
	}
	if method == models.ContactEmail {
		printlnFn("Opening email composer...")
	} else {
		printlnFn("Opening phone dialer...")
	}
	return nil
}
