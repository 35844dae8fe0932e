package app

import (
	"context"
	"strings"
	"time"

	"gramture-service/internal/domain"
)

// ProductStore persists storefront products and orders.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	AddOrder(ctx context.Context, order domain.Order) (domain.Order, error)
}

// StoreService is the small e-commerce storefront: browse products,
// place orders. Payment and fulfillment live elsewhere.
type StoreService struct {
	products ProductStore
	now      func() time.Time
}

func NewStoreService(products ProductStore) *StoreService {
	return &StoreService{products: products, now: time.Now}
}

// WithClock overrides the service clock for deterministic tests.
func (s *StoreService) WithClock(now func() time.Time) *StoreService {
	s.now = now
	return s
}

// Products lists the catalog.
func (s *StoreService) Products(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}

// PlaceOrder validates and appends an order. Every referenced product must
// exist; quantities must be positive.
func (s *StoreService) PlaceOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if strings.TrimSpace(order.Customer) == "" || strings.TrimSpace(order.Address) == "" {
		return domain.Order{}, domain.ErrValidation
	}
	if !plausibleEmail(order.Email) {
		return domain.Order{}, domain.ErrValidation
	}
	if len(order.Items) == 0 {
		return domain.Order{}, domain.ErrValidation
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return domain.Order{}, domain.ErrValidation
		}
		if _, err := s.products.GetProduct(ctx, item.ProductID); err != nil {
			return domain.Order{}, err
		}
	}
	order.Timestamp = s.now()
	return s.products.AddOrder(ctx, order)
}
