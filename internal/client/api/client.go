// Package api implements the REST client for the storefront backend.
//
// Every call is a single best-effort attempt: no retries, no caching. A
// bearer token is requested from the token source immediately before each
// request; when no session is active the call proceeds unauthenticated and
// the backend remains the sole enforcer of authorization.
package api

import (
	"context"
	"io"

	"github.com/dmitrijs2005/farmstand/internal/client/models"
)

// TokenSource mints an identity token for the current session. An empty
// token with a nil error means "no active session"; the request is then sent
// without an Authorization header.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// Client defines the backend operations the views drive.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, form ProductForm) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, form ProductForm) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetCurrentUser(ctx context.Context) (*models.User, error)
	UpdateUserProfile(ctx context.Context, fields ProfileFields) (*models.User, error)
	CreateUserProfile(ctx context.Context, fields ProfileFields) (*models.User, error)
}

// ProductForm holds the create/update payload. Image is optional; when set it
// travels as a binary part of the multipart body.
type ProductForm struct {
	Name        string
	Price       string
	Description string
	Image       ImageSource
}

// ProfileFields is the JSON payload for the user profile endpoints. The
// update endpoint replaces the whole record, so every field is transmitted:
// an emptied value clears the stored one instead of being silently kept.
type ProfileFields struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Bio      string `json:"bio"`
}

// ImageSource supplies the binary image payload for multipart submission.
type ImageSource interface {
	// Open returns the image bytes and the filename to submit under.
	Open() (io.ReadCloser, string, error)
}
