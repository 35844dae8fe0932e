package memory

import (
	"context"
	"strconv"
	"sync"

	"gramture-service/internal/domain"
)

// ProductStore keeps the storefront catalog and orders in memory.
type ProductStore struct {
	mu       sync.Mutex
	products map[string]domain.Product
	orders   []domain.Order
	seq      int
}

func NewProductStore(products []domain.Product) *ProductStore {
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &ProductStore{products: byID}
}

func (s *ProductStore) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func (s *ProductStore) GetProduct(_ context.Context, id string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (s *ProductStore) AddOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	order.ID = "order" + strconv.Itoa(s.seq)
	s.orders = append(s.orders, order)
	return order, nil
}

// Orders is test-only visibility into placed orders.
func (s *ProductStore) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}
