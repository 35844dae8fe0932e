package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gramture-service/internal/app"
	"gramture-service/internal/domain"
	"gramture-service/internal/infra/memory"
)

func newTestAPI(t *testing.T) (*httptest.Server, *memory.RecordStore) {
	t.Helper()

	content := memory.NewContentStore([]domain.Topic{
		{ID: "t1", Class: "Class 9", SubCategory: "Book Lessons", Topic: "The Dying Sun"},
	})
	topics := memory.NewTopicRepository(content, time.Minute)
	records := memory.NewRecordStore()
	forum := memory.NewForumStore()
	products := memory.NewProductStore([]domain.Product{
		{ID: "notes-9", Name: "Class 9 Notes", Price: 5},
	})

	api := NewAPI(
		app.NewContentService(topics, content),
		app.NewToppersService(records),
		app.NewForumService(forum, forum),
		app.NewStoreService(products),
	)
	server := httptest.NewServer(api.Router())
	t.Cleanup(server.Close)
	return server, records
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	raw, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
	}
	return resp.StatusCode
}

func TestTopicEndpoints(t *testing.T) {
	server, _ := newTestAPI(t)

	var topics []domain.Topic
	if code := getJSON(t, server.URL+"/api/topics?class=9&subCategory=book+lessons", &topics); code != http.StatusOK {
		t.Fatalf("list topics: status %d", code)
	}
	if len(topics) != 1 || topics[0].ID != "t1" {
		t.Fatalf("unexpected topics: %+v", topics)
	}

	var topic domain.Topic
	if code := getJSON(t, server.URL+"/api/topics/Book Lessons/the-dying-sun", &topic); code != http.StatusOK {
		t.Fatalf("get topic: status %d", code)
	}
	if topic.ID != "t1" {
		t.Fatalf("unexpected topic: %+v", topic)
	}

	if code := getJSON(t, server.URL+"/api/topics/Book Lessons/no-such-slug", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %d", code)
	}
}

func TestToppersEndpoints(t *testing.T) {
	server, records := newTestAPI(t)
	records.RecordCompletion(context.Background(), domain.User{ID: "alice", Name: "Alice"}, "Tenses", 8, 10, time.Now())

	var wall app.Wall
	if code := getJSON(t, server.URL+"/api/toppers", &wall); code != http.StatusOK {
		t.Fatalf("wall: status %d", code)
	}
	if len(wall.Daily) != 1 || wall.Daily[0].Rank != 1 {
		t.Fatalf("unexpected wall: %+v", wall)
	}

	var entry domain.TopperEntry
	if code := postJSON(t, server.URL+"/api/toppers/alice/like", map[string]string{"userId": "bob"}, &entry); code != http.StatusOK {
		t.Fatalf("like: status %d", code)
	}
	if entry.Likes != 1 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	// Anonymous like is rejected.
	if code := postJSON(t, server.URL+"/api/toppers/alice/like", map[string]string{}, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous like, got %d", code)
	}
}

func TestForumEndpoints(t *testing.T) {
	server, _ := newTestAPI(t)

	var thread domain.ForumThread
	code := postJSON(t, server.URL+"/api/forum", domain.ForumThread{
		Author: "Alice", Title: "Past perfect?", Body: "When?",
	}, &thread)
	if code != http.StatusCreated || thread.ID == "" {
		t.Fatalf("ask: status %d thread %+v", code, thread)
	}

	code = postJSON(t, server.URL+"/api/forum/"+thread.ID+"/replies", domain.Comment{
		Author: "Bob", Text: "Before another past action.",
	}, &thread)
	if code != http.StatusCreated || len(thread.Replies) != 1 {
		t.Fatalf("reply: status %d thread %+v", code, thread)
	}

	if code := postJSON(t, server.URL+"/api/forum", domain.ForumThread{Title: "no author"}, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid thread, got %d", code)
	}
}

func TestCommentEndpoints(t *testing.T) {
	server, _ := newTestAPI(t)

	var created domain.Comment
	code := postJSON(t, server.URL+"/api/comments/book-lessons/t1", domain.Comment{
		Author: "Alice", Text: "Great notes",
	}, &created)
	if code != http.StatusCreated || created.ID == "" {
		t.Fatalf("add comment: status %d comment %+v", code, created)
	}

	var comments []domain.Comment
	if code := getJSON(t, server.URL+"/api/comments/book-lessons/t1", &comments); code != http.StatusOK {
		t.Fatalf("list comments: status %d", code)
	}
	if len(comments) != 1 {
		t.Fatalf("unexpected comments: %+v", comments)
	}
}

func TestStoreEndpoints(t *testing.T) {
	server, _ := newTestAPI(t)

	var products []domain.Product
	if code := getJSON(t, server.URL+"/api/store/products", &products); code != http.StatusOK {
		t.Fatalf("products: status %d", code)
	}
	if len(products) != 1 {
		t.Fatalf("unexpected products: %+v", products)
	}

	var order domain.Order
	code := postJSON(t, server.URL+"/api/store/orders", domain.Order{
		Customer: "Alice",
		Email:    "alice@example.com",
		Address:  "12 Canal Road, Lahore",
		Items:    []domain.OrderItem{{ProductID: "notes-9", Quantity: 1}},
	}, &order)
	if code != http.StatusCreated || order.ID == "" {
		t.Fatalf("order: status %d order %+v", code, order)
	}

	code = postJSON(t, server.URL+"/api/store/orders", domain.Order{
		Customer: "Alice", Email: "alice@example.com", Address: "x",
		Items: []domain.OrderItem{{ProductID: "missing", Quantity: 1}},
	}, nil)
	if code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", code)
	}
}

func TestAdminTopicLifecycle(t *testing.T) {
	server, _ := newTestAPI(t)

	var created domain.Topic
	code := postJSON(t, server.URL+"/api/admin/topics", domain.Topic{
		Class:       "Class 10",
		SubCategory: "Guess Paper",
		Topic:       "2026 Guess",
	}, &created)
	if code != http.StatusCreated || created.ID == "" {
		t.Fatalf("add topic: status %d topic %+v", code, created)
	}

	// Visible immediately through the cached read path.
	var topic domain.Topic
	if code := getJSON(t, server.URL+"/api/topics/Guess Paper/2026-guess", &topic); code != http.StatusOK {
		t.Fatalf("get created topic: status %d", code)
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/api/admin/topics/"+created.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	if code := getJSON(t, server.URL+"/api/topics/Guess Paper/2026-guess", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", code)
	}
}
