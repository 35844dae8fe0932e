package app_test

import (
	"context"
	"errors"
	"testing"

	"gramture-service/internal/app"
	"gramture-service/internal/domain"
	"gramture-service/internal/infra/memory"
)

func newStoreService() (*app.StoreService, *memory.ProductStore) {
	products := memory.NewProductStore([]domain.Product{
		{ID: "notes-9", Name: "Class 9 Notes", Price: 5},
	})
	return app.NewStoreService(products), products
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	service, products := newStoreService()

	order, err := service.PlaceOrder(ctx, domain.Order{
		Customer: "Alice",
		Email:    "alice@example.com",
		Address:  "12 Canal Road, Lahore",
		Items:    []domain.OrderItem{{ProductID: "notes-9", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.ID == "" || order.Timestamp.IsZero() {
		t.Fatalf("expected assigned id and timestamp, got %+v", order)
	}
	if got := products.Orders(); len(got) != 1 {
		t.Fatalf("expected 1 stored order, got %d", len(got))
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	service, _ := newStoreService()

	item := []domain.OrderItem{{ProductID: "notes-9", Quantity: 1}}
	cases := []domain.Order{
		{Customer: "", Email: "a@b.co", Address: "x", Items: item},
		{Customer: "Alice", Email: "nope", Address: "x", Items: item},
		{Customer: "Alice", Email: "a@b.co", Address: "", Items: item},
		{Customer: "Alice", Email: "a@b.co", Address: "x"},
		{Customer: "Alice", Email: "a@b.co", Address: "x", Items: []domain.OrderItem{{ProductID: "notes-9", Quantity: 0}}},
	}
	for _, c := range cases {
		if _, err := service.PlaceOrder(ctx, c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", c, err)
		}
	}

	_, err := service.PlaceOrder(ctx, domain.Order{
		Customer: "Alice", Email: "a@b.co", Address: "x",
		Items: []domain.OrderItem{{ProductID: "no-such-product", Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
