package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"gramture-service/internal/domain"
	"github.com/uptrace/bun"
)

// ProductStore persists the storefront catalog and orders.
type ProductStore struct {
	db *bun.DB
}

func NewProductStore(db *bun.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]domain.Product, len(rows))
	for i, r := range rows {
		products[i] = domain.Product{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			ImageURL:    r.ImageURL,
		}
	}
	return products, nil
}

func (s *ProductStore) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	row := new(productRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		ImageURL:    row.ImageURL,
	}, nil
}

func (s *ProductStore) AddOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	row := orderRow{
		Customer:  order.Customer,
		Email:     order.Email,
		Address:   order.Address,
		Items:     order.Items,
		CreatedAt: order.Timestamp,
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("id").Exec(ctx); err != nil {
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}
	order.ID = strconv.FormatInt(row.ID, 10)
	return order, nil
}
