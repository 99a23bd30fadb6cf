package store

import (
	"context"
	"errors"

	"yarmouktailor/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Catalog holds the fabric offerings and ready-made products. Listing order
// is insertion order: seed entries first, owner-added entries after.
type Catalog interface {
	ListFabrics(ctx context.Context) ([]domain.FabricOffering, error)
	GetFabric(ctx context.Context, id string) (*domain.FabricOffering, error)
	AddFabric(ctx context.Context, fabric domain.FabricOffering) (*domain.FabricOffering, error)
	UpdateFabric(ctx context.Context, fabric domain.FabricOffering) (*domain.FabricOffering, error)
	RemoveFabric(ctx context.Context, id string) error

	ListProducts(ctx context.Context) ([]domain.ReadymadeProduct, error)
	GetProduct(ctx context.Context, id string) (*domain.ReadymadeProduct, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]domain.ReadymadeProduct, error)
	AddProduct(ctx context.Context, product domain.ReadymadeProduct) (*domain.ReadymadeProduct, error)
	UpdateProduct(ctx context.Context, product domain.ReadymadeProduct) (*domain.ReadymadeProduct, error)
	RemoveProduct(ctx context.Context, id string) error
}
