// Package products persists devserver catalog entries.
package products

import (
	"context"

	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	// List returns the collection in stable newest-first order.
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}
