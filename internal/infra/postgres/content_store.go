package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gramture-service/internal/domain"
	"github.com/uptrace/bun"
)

// ContentStore is the admin write side for classes, subcategories and
// topic documents. Topic documents stay JSONB so content can keep its
// loose authored shape; the typed domain.Topic is enforced on the way in.
type ContentStore struct {
	db *bun.DB
}

func NewContentStore(db *bun.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ListClasses(ctx context.Context) ([]string, error) {
	var rows []classRow
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

func (s *ContentStore) AddClass(ctx context.Context, name string) error {
	row := classRow{Name: name}
	if _, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

func (s *ContentStore) ListSubCategories(ctx context.Context) ([]string, error) {
	var rows []subCategoryRow
	if err := s.db.NewSelect().Model(&rows).Order("name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

func (s *ContentStore) AddSubCategory(ctx context.Context, name string) error {
	row := subCategoryRow{Name: name}
	if _, err := s.db.NewInsert().Model(&row).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		return fmt.Errorf("insert subcategory: %w", err)
	}
	return nil
}

func (s *ContentStore) AddTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	topic.ID = newTopicID()
	topic.CreatedAt = time.Now()
	raw, err := json.Marshal(topic)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("marshal topic: %w", err)
	}
	row := topicRow{ID: topic.ID, Data: raw, CreatedAt: topic.CreatedAt}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return domain.Topic{}, fmt.Errorf("insert topic: %w", err)
	}
	return topic, nil
}

func (s *ContentStore) UpdateTopic(ctx context.Context, topic domain.Topic) error {
	raw, err := json.Marshal(topic)
	if err != nil {
		return fmt.Errorf("marshal topic: %w", err)
	}
	row := topicRow{ID: topic.ID, Data: raw}
	res, err := s.db.NewUpdate().Model(&row).
		Column("data").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}

func (s *ContentStore) DeleteTopic(ctx context.Context, id string) error {
	row := topicRow{ID: id}
	res, err := s.db.NewDelete().Model(&row).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrTopicNotFound
	}
	return nil
}

// newTopicID mints a random document id, the shape the site's document
// store used for topic ids.
func newTopicID() string {
	buf := make([]byte, 10)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
