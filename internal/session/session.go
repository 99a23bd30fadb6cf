// Package session holds the per-visit storefront state. Every browsing
// session gets its own isolated state; nothing survives past the session
// TTL and nothing is shared between sessions except the catalog.
package session

import (
	"context"
	"time"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/gate"
)

// State is the full mutable state of one storefront session.
type State struct {
	ID               string                   `json:"id"`
	Spec             domain.CustomizationSpec `json:"spec"`
	SelectedFabricID string                   `json:"selectedFabricId,omitempty"`
	Cart             []domain.CartLine        `json:"cart,omitempty"`
	Gate             gate.State               `json:"gate"`
	ReceiptImage     []byte                   `json:"receiptImage,omitempty"`
	ReceiptMIME      string                   `json:"receiptMime,omitempty"`
	Confirmed        bool                     `json:"confirmed"`
	OrderID          string                   `json:"orderId,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// NewState returns a fresh session state with empty selections.
func NewState(id string) *State {
	now := time.Now().UTC()
	return &State{
		ID:        id,
		Spec:      domain.NewCustomizationSpec(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CartQuantity returns the quantity of a product in the cart, 0 when absent.
func (s *State) CartQuantity(productID string) int {
	for _, line := range s.Cart {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// AdjustCart applies a signed quantity delta to a product line. Lines are
// created on first positive delta and removed when the quantity reaches
// zero; the quantity never goes negative.
func (s *State) AdjustCart(productID string, delta int) {
	for i := range s.Cart {
		if s.Cart[i].ProductID != productID {
			continue
		}
		s.Cart[i].Quantity += delta
		if s.Cart[i].Quantity <= 0 {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
		}
		return
	}
	if delta > 0 {
		s.Cart = append(s.Cart, domain.CartLine{ProductID: productID, Quantity: delta})
	}
}

// Store persists session state for the session TTL.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Put(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
	// PurgeFabricSelection clears the fabric selection from every live
	// session that references the given fabric. Used when a fabric is
	// removed from the catalog so no session keeps pricing a dead offering.
	PurgeFabricSelection(ctx context.Context, fabricID string) error
}
