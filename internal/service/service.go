// Package service wires the catalog, sessions, and the handoff dispatcher
// into the storefront's operations. All invariants that span more than one
// package are enforced here.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/handoff"
	"yarmouktailor/backend/internal/order"
	"yarmouktailor/backend/internal/session"
	"yarmouktailor/backend/internal/store"
	"yarmouktailor/backend/internal/xid"
)

// ErrLocked is returned when a catalog-editing operation is attempted by a
// session that has not unlocked privileged mode.
var ErrLocked = errors.New("privileged mode required")

type Service struct {
	catalog    store.Catalog
	sessions   *session.Manager
	dispatcher *handoff.Dispatcher

	serviceFee    float64
	dispatchDelay time.Duration
}

func New(catalog store.Catalog, sessions *session.Manager, dispatcher *handoff.Dispatcher, serviceFee float64, dispatchDelay time.Duration) *Service {
	return &Service{
		catalog:       catalog,
		sessions:      sessions,
		dispatcher:    dispatcher,
		serviceFee:    serviceFee,
		dispatchDelay: dispatchDelay,
	}
}

// Catalog returns the storefront catalog: fabrics with display discounts and
// products grouped by category in display order.
func (s *Service) Catalog(ctx context.Context) (*domain.CatalogResponse, error) {
	fabrics, err := s.catalog.ListFabrics(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	resp := &domain.CatalogResponse{
		Fabrics:  make([]domain.FabricView, 0, len(fabrics)),
		Products: make([]domain.ProductGroupView, 0, len(domain.ProductCategories)),
	}
	for _, f := range fabrics {
		resp.Fabrics = append(resp.Fabrics, domain.FabricView{
			FabricOffering:  f,
			DiscountPercent: f.DiscountPercent(),
		})
	}
	for _, category := range domain.ProductCategories {
		group := domain.ProductGroupView{
			Category: category,
			Label:    domain.CategoryLabels[category],
			Items:    []domain.ReadymadeProduct{},
		}
		for _, p := range products {
			if p.Category == category {
				group.Items = append(group.Items, p)
			}
		}
		resp.Products = append(resp.Products, group)
	}
	return resp, nil
}

// ---- privileged catalog editing ----

func (s *Service) CreateFabric(ctx context.Context, sessionID string, req domain.FabricCreateRequest) (*domain.FabricOffering, error) {
	if err := s.requireUnlocked(ctx, sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || req.Price <= 0 {
		return nil, fmt.Errorf("%w: fabric needs a name and a positive price", store.ErrInvalidInput)
	}
	return s.catalog.AddFabric(ctx, domain.FabricOffering{
		ID:          xid.New("fabric"),
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		PriorPrice:  req.PriorPrice,
		Description: req.Description,
		Image:       req.Image,
	})
}

func (s *Service) UpdateFabric(ctx context.Context, sessionID, fabricID string, req domain.FabricUpdateRequest) (*domain.FabricOffering, error) {
	if err := s.requireUnlocked(ctx, sessionID); err != nil {
		return nil, err
	}
	current, err := s.catalog.GetFabric(ctx, fabricID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: fabric name cannot be empty", store.ErrInvalidInput)
		}
		current.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: fabric price must be positive", store.ErrInvalidInput)
		}
		current.Price = *req.Price
	}
	if req.PriorPrice != nil {
		current.PriorPrice = *req.PriorPrice
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Image != nil {
		current.Image = *req.Image
	}
	return s.catalog.UpdateFabric(ctx, *current)
}

// DeleteFabric removes a fabric from the catalog and clears it from every
// session that had it selected, so no open order keeps pricing a dead
// offering.
func (s *Service) DeleteFabric(ctx context.Context, sessionID, fabricID string) error {
	if err := s.requireUnlocked(ctx, sessionID); err != nil {
		return err
	}
	if err := s.catalog.RemoveFabric(ctx, fabricID); err != nil {
		return err
	}
	return s.sessions.PurgeFabricSelection(ctx, fabricID)
}

func (s *Service) CreateProduct(ctx context.Context, sessionID string, req domain.ProductCreateRequest) (*domain.ReadymadeProduct, error) {
	if err := s.requireUnlocked(ctx, sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || req.Price <= 0 {
		return nil, fmt.Errorf("%w: product needs a name and a positive price", store.ErrInvalidInput)
	}
	if !slices.Contains(domain.ProductCategories, req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", store.ErrInvalidInput, req.Category)
	}
	return s.catalog.AddProduct(ctx, domain.ReadymadeProduct{
		ID:          xid.New("product"),
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
	})
}

func (s *Service) UpdateProduct(ctx context.Context, sessionID, productID string, req domain.ProductUpdateRequest) (*domain.ReadymadeProduct, error) {
	if err := s.requireUnlocked(ctx, sessionID); err != nil {
		return nil, err
	}
	current, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty", store.ErrInvalidInput)
		}
		current.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: product price must be positive", store.ErrInvalidInput)
		}
		current.Price = *req.Price
	}
	if req.Description != nil {
		current.Description = *req.Description
	}
	if req.Image != nil {
		current.Image = *req.Image
	}
	if req.Category != nil {
		if !slices.Contains(domain.ProductCategories, *req.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", store.ErrInvalidInput, *req.Category)
		}
		current.Category = *req.Category
	}
	return s.catalog.UpdateProduct(ctx, *current)
}

func (s *Service) DeleteProduct(ctx context.Context, sessionID, productID string) error {
	if err := s.requireUnlocked(ctx, sessionID); err != nil {
		return err
	}
	return s.catalog.RemoveProduct(ctx, productID)
}

// ---- session lifecycle ----

func (s *Service) CreateSession(ctx context.Context) (*domain.SessionView, error) {
	state, err := s.sessions.Create(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, state)
}

func (s *Service) Session(ctx context.Context, sessionID string) (*domain.SessionView, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, state)
}

func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// ---- tailoring customization ----

func (s *Service) SetMeasurement(ctx context.Context, sessionID, key, value string) (*domain.SessionView, error) {
	if !slices.Contains(domain.MeasurementKeys, key) {
		return nil, fmt.Errorf("%w: unknown measurement %q", store.ErrInvalidInput, key)
	}
	return s.update(ctx, sessionID, func(state *session.State) error {
		if state.Spec.Measurements == nil {
			state.Spec.Measurements = make(map[string]string)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			delete(state.Spec.Measurements, key)
			return nil
		}
		state.Spec.Measurements[key] = value
		return nil
	})
}

// SetStyle records a style choice. Last write wins; an empty value clears the
// field.
func (s *Service) SetStyle(ctx context.Context, sessionID, field, value string) (*domain.SessionView, error) {
	return s.update(ctx, sessionID, func(state *session.State) error {
		switch field {
		case domain.StyleFieldNeck:
			state.Spec.NeckType = value
		case domain.StyleFieldCuff:
			state.Spec.CuffType = value
		case domain.StyleFieldChest:
			state.Spec.ChestType = value
		case domain.StyleFieldTailor:
			state.Spec.TailorType = value
		default:
			return fmt.Errorf("%w: unknown style field %q", store.ErrInvalidInput, field)
		}
		return nil
	})
}

func (s *Service) SetNotes(ctx context.Context, sessionID, notes string) (*domain.SessionView, error) {
	return s.update(ctx, sessionID, func(state *session.State) error {
		state.Spec.Notes = notes
		return nil
	})
}

// SelectFabric sets the session's fabric selection. The empty ID clears the
// selection; otherwise the fabric must exist in the catalog.
func (s *Service) SelectFabric(ctx context.Context, sessionID, fabricID string) (*domain.SessionView, error) {
	if fabricID != "" {
		if _, err := s.catalog.GetFabric(ctx, fabricID); err != nil {
			return nil, err
		}
	}
	return s.update(ctx, sessionID, func(state *session.State) error {
		state.SelectedFabricID = fabricID
		return nil
	})
}

// ---- cart ----

func (s *Service) AddToCart(ctx context.Context, sessionID, productID string) (*domain.SessionView, error) {
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, func(state *session.State) error {
		state.AdjustCart(productID, 1)
		return nil
	})
}

// AdjustCart applies a signed quantity delta to a cart line. Decrementing to
// zero removes the line; a delta below an existing line's quantity clamps at
// removal rather than going negative. A zero delta passes through as a no-op.
func (s *Service) AdjustCart(ctx context.Context, sessionID, productID string, delta int) (*domain.SessionView, error) {
	if delta > 0 {
		if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
			return nil, err
		}
	}
	return s.update(ctx, sessionID, func(state *session.State) error {
		state.AdjustCart(productID, delta)
		return nil
	})
}

// ---- receipt ----

func (s *Service) SetReceipt(ctx context.Context, sessionID string, data []byte, mime string) (*domain.SessionView, error) {
	return s.update(ctx, sessionID, func(state *session.State) error {
		state.ReceiptImage = data
		state.ReceiptMIME = mime
		return nil
	})
}

// ---- summary and dispatch ----

func (s *Service) Summary(ctx context.Context, sessionID string) (*domain.OrderSummary, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, _, _, err := s.summarize(ctx, state)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Dispatch validates the order, composes the handoff, and marks the session
// confirmed. The configured delay runs before the confirmed state is
// recorded, mirroring the storefront's submission latency.
func (s *Service) Dispatch(ctx context.Context, sessionID string, req domain.DispatchRequest) (*domain.DispatchResponse, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, fabric, lines, err := s.summarize(ctx, state)
	if err != nil {
		return nil, err
	}

	result, err := s.dispatcher.Dispatch(req, state.Spec, fabric, lines, summary)
	if err != nil {
		return nil, err
	}

	if s.dispatchDelay > 0 {
		timer := time.NewTimer(s.dispatchDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if _, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		state.Confirmed = true
		state.OrderID = result.OrderID
		return nil
	}); err != nil {
		return nil, err
	}

	return &domain.DispatchResponse{
		OrderID:    result.OrderID,
		HandoffURL: result.URL,
		Message:    result.Message,
		GrandTotal: summary.GrandTotal,
	}, nil
}

// ---- privileged-mode gate ----

func (s *Service) GateTap(ctx context.Context, sessionID string) (*domain.GateStatus, error) {
	return s.gateUpdate(ctx, sessionID, func(state *session.State) {
		state.Gate.RegisterTap()
	})
}

func (s *Service) GateSubmitPIN(ctx context.Context, sessionID, pin string) (*domain.GateStatus, error) {
	return s.gateUpdate(ctx, sessionID, func(state *session.State) {
		state.Gate.SubmitPIN(pin)
	})
}

func (s *Service) GateCancel(ctx context.Context, sessionID string) (*domain.GateStatus, error) {
	return s.gateUpdate(ctx, sessionID, func(state *session.State) {
		state.Gate.CancelPrompt()
	})
}

func (s *Service) GateLock(ctx context.Context, sessionID string) (*domain.GateStatus, error) {
	return s.gateUpdate(ctx, sessionID, func(state *session.State) {
		state.Gate.Lock()
	})
}

// History returns the static shop-history section.
func (s *Service) History() *domain.HistoryResponse {
	return historyData()
}

// ---- internals ----

func (s *Service) requireUnlocked(ctx context.Context, sessionID string) error {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !state.Gate.Unlocked {
		return ErrLocked
	}
	return nil
}

func (s *Service) update(ctx context.Context, sessionID string, fn func(*session.State) error) (*domain.SessionView, error) {
	state, err := s.sessions.Update(ctx, sessionID, fn)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, state)
}

func (s *Service) gateUpdate(ctx context.Context, sessionID string, fn func(*session.State)) (*domain.GateStatus, error) {
	state, err := s.sessions.Update(ctx, sessionID, func(state *session.State) error {
		fn(state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	status := gateStatus(state)
	return &status, nil
}

// summarize resolves the session's selections against the catalog and prices
// the order. Cart lines whose product has been removed from the catalog are
// skipped; a dangling fabric selection prices as no selection.
func (s *Service) summarize(ctx context.Context, state *session.State) (domain.OrderSummary, *domain.FabricOffering, []order.Line, error) {
	var fabric *domain.FabricOffering
	if state.SelectedFabricID != "" {
		f, err := s.catalog.GetFabric(ctx, state.SelectedFabricID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return domain.OrderSummary{}, nil, nil, err
		}
		fabric = f
	}

	ids := make([]string, 0, len(state.Cart))
	for _, line := range state.Cart {
		ids = append(ids, line.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return domain.OrderSummary{}, nil, nil, err
	}

	lines := make([]order.Line, 0, len(state.Cart))
	for _, cl := range state.Cart {
		p, ok := products[cl.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, order.Line{Name: p.Name, Price: p.Price, Quantity: cl.Quantity})
	}

	return order.Summarize(state.Spec, fabric, lines, s.serviceFee), fabric, lines, nil
}

func (s *Service) view(ctx context.Context, state *session.State) (*domain.SessionView, error) {
	summary, fabric, _, err := s.summarize(ctx, state)
	if err != nil {
		return nil, err
	}

	view := &domain.SessionView{
		SessionID:  state.ID,
		Spec:       state.Spec,
		Cart:       make([]domain.CartLineView, 0, len(state.Cart)),
		Summary:    summary,
		Gate:       gateStatus(state),
		HasReceipt: len(state.ReceiptImage) > 0,
		Confirmed:  state.Confirmed,
		OrderID:    state.OrderID,
	}
	if fabric != nil {
		view.SelectedFabric = &domain.FabricView{
			FabricOffering:  *fabric,
			DiscountPercent: fabric.DiscountPercent(),
		}
	}

	ids := make([]string, 0, len(state.Cart))
	for _, line := range state.Cart {
		ids = append(ids, line.ProductID)
	}
	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, cl := range state.Cart {
		p, ok := products[cl.ProductID]
		if !ok {
			continue
		}
		view.Cart = append(view.Cart, domain.CartLineView{
			Product:   p,
			Quantity:  cl.Quantity,
			LineTotal: p.Price * float64(cl.Quantity),
		})
	}
	return view, nil
}

func gateStatus(state *session.State) domain.GateStatus {
	return domain.GateStatus{
		Unlocked:        state.Gate.Unlocked,
		PinPromptOpen:   state.Gate.PinPromptOpen,
		TapsUntilPrompt: state.Gate.TapsRemaining(),
	}
}
