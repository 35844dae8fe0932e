package app

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"gramture-service/internal/domain"
)

// ContentStore persists the admin-managed content: classes, subcategories
// and topic documents.
type ContentStore interface {
	ListClasses(ctx context.Context) ([]string, error)
	AddClass(ctx context.Context, name string) error
	ListSubCategories(ctx context.Context) ([]string, error)
	AddSubCategory(ctx context.Context, name string) error
	AddTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error)
	UpdateTopic(ctx context.Context, topic domain.Topic) error
	DeleteTopic(ctx context.Context, id string) error
}

// Grammar is its own pseudo-class with a fixed subcategory list; the
// remaining classes share a hardcoded prefix plus whatever admins add.
var (
	grammarSubCategories = []string{
		"Letters", "Stories", "Applications", "Translations",
		"Conditional Sentences", "Tenses", "MCQ Test", "Idioms",
		"Direct & Indirect",
	}
	commonSubCategories = []string{
		"Past Papers", "Guess Paper", "Book Lessons", "MCQ Test",
	}
)

// ContentService serves content reads and the admin dashboard operations.
type ContentService struct {
	topics TopicRepository
	store  ContentStore
}

func NewContentService(topics TopicRepository, store ContentStore) *ContentService {
	return &ContentService{topics: topics, store: store}
}

// Classes lists the selectable classes.
func (s *ContentService) Classes(ctx context.Context) ([]string, error) {
	return s.store.ListClasses(ctx)
}

// SubCategoriesFor resolves the subcategory list for a class: grammar has
// only its fixed set; everything else is the common set plus stored ones,
// with grammar-only entries filtered out.
func (s *ContentService) SubCategoriesFor(ctx context.Context, class string) ([]string, error) {
	if domain.Normalize(class) == "grammar" {
		return append([]string(nil), grammarSubCategories...), nil
	}
	subs := append([]string(nil), commonSubCategories...)
	stored, err := s.store.ListSubCategories(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range stored {
		if containsNormalized(grammarSubCategories, name) || containsNormalized(subs, name) {
			continue
		}
		subs = append(subs, name)
	}
	return subs, nil
}

func containsNormalized(list []string, name string) bool {
	n := domain.Normalize(name)
	for _, item := range list {
		if domain.Normalize(item) == n {
			return true
		}
	}
	return false
}

// Topics lists the topics for a class/subcategory, ordered the way the
// site lists them: numeric name prefixes first in numeric order, the rest
// alphabetically.
func (s *ContentService) Topics(ctx context.Context, class, subCategory string) ([]domain.Topic, error) {
	topics, err := s.topics.ListTopics(ctx, class, subCategory)
	if err != nil {
		return nil, err
	}
	SortTopics(topics)
	return topics, nil
}

// SortTopics orders topics by leading number when both names have one,
// falling back to case-insensitive name order.
func SortTopics(topics []domain.Topic) {
	sort.SliceStable(topics, func(i, j int) bool {
		a, b := topics[i].Topic, topics[j].Topic
		na, oka := leadingNumber(a)
		nb, okb := leadingNumber(b)
		if oka && okb && na != nb {
			return na < nb
		}
		return strings.ToLower(a) < strings.ToLower(b)
	})
}

func leadingNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// Topic resolves one topic by subcategory and slug-or-id.
func (s *ContentService) Topic(ctx context.Context, subCategory, ref string) (domain.Topic, error) {
	return s.topics.GetTopic(ctx, subCategory, ref)
}

// cacheInvalidator is implemented by the caching topic repositories;
// admin writes drop the cache so the next read sees fresh content.
type cacheInvalidator interface {
	Invalidate(ctx context.Context)
}

func (s *ContentService) invalidate(ctx context.Context) {
	if inv, ok := s.topics.(cacheInvalidator); ok {
		inv.Invalidate(ctx)
	}
}

// AddTopic validates and stores a new topic document.
func (s *ContentService) AddTopic(ctx context.Context, topic domain.Topic) (domain.Topic, error) {
	if strings.TrimSpace(topic.Topic) == "" || strings.TrimSpace(topic.SubCategory) == "" {
		return domain.Topic{}, domain.ErrValidation
	}
	for _, q := range topic.MCQs {
		if err := q.Validate(); err != nil {
			return domain.Topic{}, err
		}
	}
	created, err := s.store.AddTopic(ctx, topic)
	if err != nil {
		return domain.Topic{}, err
	}
	s.invalidate(ctx)
	return created, nil
}

// UpdateTopic overwrites an existing topic document.
func (s *ContentService) UpdateTopic(ctx context.Context, topic domain.Topic) error {
	if topic.ID == "" {
		return domain.ErrValidation
	}
	for _, q := range topic.MCQs {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	if err := s.store.UpdateTopic(ctx, topic); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeleteTopic removes a topic document.
func (s *ContentService) DeleteTopic(ctx context.Context, id string) error {
	if err := s.store.DeleteTopic(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AddClass registers a class name.
func (s *ContentService) AddClass(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrValidation
	}
	return s.store.AddClass(ctx, name)
}

// AddSubCategory registers a subcategory name.
func (s *ContentService) AddSubCategory(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return domain.ErrValidation
	}
	return s.store.AddSubCategory(ctx, name)
}
