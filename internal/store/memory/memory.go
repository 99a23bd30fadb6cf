package memory

import (
	"context"
	"slices"
	"sync"

	"yarmouktailor/backend/internal/domain"
	"yarmouktailor/backend/internal/store"
)

const defaultFabricImage = "/images/fabric.jpg"

// Store is an in-memory catalog. All state is ephemeral: edits made while the
// privileged mode is unlocked survive only until the process restarts.
type Store struct {
	mu       sync.RWMutex
	fabrics  []domain.FabricOffering
	products []domain.ReadymadeProduct
}

// NewSeeded returns a catalog preloaded with the shop's standing offerings.
func NewSeeded() *Store {
	fabrics := []domain.FabricOffering{
		{
			ID:          "f1",
			Name:        "قماش جوري إنجليزي",
			Price:       180,
			Description: "قماش إنجليزي فاخر من أجود أنواع الأقمشة، مناسب للثياب الرسمية",
		},
		{
			ID:          "f2",
			Name:        "قماش ياباني سوبر",
			Price:       220,
			Description: "قماش ياباني بجودة عالية ونعومة فائقة، مقاوم للتجعّد",
		},
		{
			ID:          "f3",
			Name:        "قماش تركي ممتاز",
			Price:       150,
			Description: "قماش تركي بسعر مناسب وجودة ممتازة، متعدد الألوان",
		},
		{
			ID:          "f4",
			Name:        "قماش إيطالي فاخر",
			Price:       350,
			Description: "قماش إيطالي من أرقى الماركات العالمية، ملمس حريري فاخر",
		},
	}

	products := []domain.ReadymadeProduct{
		{
			ID:          "thobe-1",
			Name:        "ثوب كلاسيكي أبيض",
			Price:       250,
			Description: "ثوب أبيض فاخر من أجود أنواع القطن المصري، تصميم كلاسيكي أنيق",
			Image:       "/images/thobe.jpg",
			Category:    domain.CategoryThobes,
		},
		{
			ID:          "thobe-2",
			Name:        "ثوب سعودي فاخر",
			Price:       320,
			Description: "ثوب سعودي مميز بقصّة عصرية وخامة ممتازة تناسب جميع المناسبات",
			Image:       "/images/thobe.jpg",
			Category:    domain.CategoryThobes,
		},
		{
			ID:          "jacket-1",
			Name:        "بشت ملكي مطرّز",
			Price:       850,
			Description: "بشت فاخر بتطريز ذهبي يدوي، مناسب للمناسبات الرسمية والأعراس",
			Image:       "/images/jacket.jpg",
			Category:    domain.CategoryJackets,
		},
		{
			ID:          "jacket-2",
			Name:        "جاكيت شتوي أنيق",
			Price:       450,
			Description: "جاكيت رجالي شتوي من الصوف الفاخر، تصميم عصري وأنيق",
			Image:       "/images/jacket.jpg",
			Category:    domain.CategoryJackets,
		},
		{
			ID:          "shawl-1",
			Name:        "شيلة حرير ملكية",
			Price:       180,
			Description: "شيلة حرير طبيعي فاخرة بلمسة ذهبية، ناعمة الملمس",
			Image:       "/images/shawl.jpg",
			Category:    domain.CategoryShawls,
		},
		{
			ID:          "shawl-2",
			Name:        "شماغ تقليدي فاخر",
			Price:       120,
			Description: "شماغ تقليدي من أجود الأقمشة، مناسب لجميع الأوقات",
			Image:       "/images/shawl.jpg",
			Category:    domain.CategoryShawls,
		},
	}

	return &Store{fabrics: fabrics, products: products}
}

func (s *Store) ListFabrics(_ context.Context) ([]domain.FabricOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fabrics), nil
}

func (s *Store) GetFabric(_ context.Context, id string) (*domain.FabricOffering, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.fabrics {
		if f.ID == id {
			found := f
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) AddFabric(_ context.Context, fabric domain.FabricOffering) (*domain.FabricOffering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fabric.ID == "" || fabric.Name == "" || fabric.Price <= 0 {
		return nil, store.ErrInvalidInput
	}
	if fabric.Image == "" {
		fabric.Image = defaultFabricImage
	}
	for _, f := range s.fabrics {
		if f.ID == fabric.ID {
			return nil, store.ErrInvalidInput
		}
	}

	s.fabrics = append(s.fabrics, fabric)
	created := fabric
	return &created, nil
}

func (s *Store) UpdateFabric(_ context.Context, fabric domain.FabricOffering) (*domain.FabricOffering, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fabric.Name == "" || fabric.Price <= 0 {
		return nil, store.ErrInvalidInput
	}
	for i, f := range s.fabrics {
		if f.ID == fabric.ID {
			s.fabrics[i] = fabric
			updated := fabric
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) RemoveFabric(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.fabrics {
		if f.ID == id {
			s.fabrics = slices.Delete(s.fabrics, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListProducts(_ context.Context) ([]domain.ReadymadeProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products), nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*domain.ReadymadeProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetProductsByIDs(_ context.Context, ids []string) (map[string]domain.ReadymadeProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.ReadymadeProduct, len(ids))
	for _, p := range s.products {
		for _, id := range ids {
			if p.ID == id {
				result[p.ID] = p
				break
			}
		}
	}
	return result, nil
}

func (s *Store) AddProduct(_ context.Context, product domain.ReadymadeProduct) (*domain.ReadymadeProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" || product.Name == "" || product.Price <= 0 || product.Category == "" {
		return nil, store.ErrInvalidInput
	}
	for _, p := range s.products {
		if p.ID == product.ID {
			return nil, store.ErrInvalidInput
		}
	}

	s.products = append(s.products, product)
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.ReadymadeProduct) (*domain.ReadymadeProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.Name == "" || product.Price <= 0 || product.Category == "" {
		return nil, store.ErrInvalidInput
	}
	for i, p := range s.products {
		if p.ID == product.ID {
			s.products[i] = product
			updated := product
			return &updated, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) RemoveProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = slices.Delete(s.products, i, i+1)
			return nil
		}
	}
	return store.ErrNotFound
}
