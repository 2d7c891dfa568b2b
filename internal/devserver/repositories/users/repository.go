// Package users persists devserver user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	// UpdateIdentity changes the identity-provider-owned fields.
	UpdateIdentity(ctx context.Context, id, displayName, photoURL string) error
	// UpdateContact changes the backend profile fields.
	UpdateContact(ctx context.Context, id, displayName, phone, location, bio string) error
	SetRefreshToken(ctx context.Context, id, token string) error
}
