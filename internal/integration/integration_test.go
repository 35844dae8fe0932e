package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"gramture-service/internal/app"
	"gramture-service/internal/domain"
	pginfra "gramture-service/internal/infra/postgres"
	pgmigrations "gramture-service/internal/infra/postgres/migrations"
	infraredis "gramture-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizCompletionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db := openBun(t, ctx, pgURL)
	defer db.Close()
	seedTopic(t, ctx, db, sampleTopic())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	topics := infraredis.NewTopicRepository(redisClient, pginfra.NewTopicLoader(pool), 5*time.Minute)
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	records := pginfra.NewRecordStore(db)
	service := app.NewQuizService(topics, sessions, records)

	user := domain.User{ID: "u1", Name: "Alice", Class: "Class 9"}

	session, topic, err := service.StartSession(ctx, user, "Book Lessons", "the-dying-sun")
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	if err := session.SelectAnswer(0, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := session.SelectAnswer(1, 0); err != nil {
		t.Fatalf("answer: %v", err)
	}
	result, err := session.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 2 {
		t.Fatalf("expected full score, got %d", result.Score)
	}

	cert, err := service.Complete(ctx, user, topic, result)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if cert.AttemptNumber != 1 || cert.Rating != domain.RatingExcellent {
		t.Fatalf("unexpected certificate: %+v", cert)
	}

	// A second completion of the same topic increments the attempt counter
	// and grows the topper aggregate.
	cert, err = service.Complete(ctx, user, topic, result)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if cert.AttemptNumber != 2 {
		t.Fatalf("expected attempt 2, got %d", cert.AttemptNumber)
	}

	stored, err := records.GetAttempt(ctx, "u1", topic.Topic)
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if stored.AttemptNumber != 2 || stored.Score != 2 {
		t.Fatalf("unexpected stored attempt: %+v", stored)
	}

	entries, err := records.ListToppers(ctx)
	if err != nil {
		t.Fatalf("list toppers: %v", err)
	}
	if len(entries) != 1 || entries[0].TotalAttempts != 2 || entries[0].Name != "Alice" {
		t.Fatalf("unexpected toppers: %+v", entries)
	}

	// Social state survives round trips through JSONB.
	if _, err := records.LikeTopper(ctx, "u1", "u2"); err != nil {
		t.Fatalf("like: %v", err)
	}
	entry, err := records.LikeTopper(ctx, "u1", "u2")
	if err != nil {
		t.Fatalf("repeat like: %v", err)
	}
	if entry.Likes != 1 {
		t.Fatalf("like must be idempotent, got %d", entry.Likes)
	}
}

func TestForumAndStorePersistence(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	db := openBun(t, ctx, pgURL)
	defer db.Close()

	forum := pginfra.NewForumStore(db)
	service := app.NewForumService(forum, forum)

	thread, err := service.Ask(ctx, domain.ForumThread{Author: "Alice", Title: "Past perfect?", Body: "When?"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if _, err := service.Reply(ctx, thread.ID, domain.Comment{Author: "Bob", Text: "Before another past action."}); err != nil {
		t.Fatalf("reply: %v", err)
	}
	threads, err := service.Threads(ctx)
	if err != nil {
		t.Fatalf("threads: %v", err)
	}
	if len(threads) != 1 || len(threads[0].Replies) != 1 {
		t.Fatalf("unexpected threads: %+v", threads)
	}

	products := pginfra.NewProductStore(db)
	if _, err := db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, image_url) VALUES ('notes-9', 'Class 9 Notes', '', 5, '')`); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	store := app.NewStoreService(products)
	order, err := store.PlaceOrder(ctx, domain.Order{
		Customer: "Alice",
		Email:    "alice@example.com",
		Address:  "12 Canal Road, Lahore",
		Items:    []domain.OrderItem{{ProductID: "notes-9", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	if order.ID == "" {
		t.Fatalf("expected assigned order id")
	}
}

func openBun(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTopic(t *testing.T, ctx context.Context, db *bun.DB, topic domain.Topic) {
	t.Helper()
	data, err := json.Marshal(topic)
	if err != nil {
		t.Fatalf("marshal topic: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO topics (id, data, created_at) VALUES (?, ?::jsonb, now()) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		topic.ID, string(data)); err != nil {
		t.Fatalf("insert topic: %v", err)
	}
}

func sampleTopic() domain.Topic {
	return domain.Topic{
		ID:          "topic-1",
		Class:       "Class 9",
		SubCategory: "Book Lessons",
		Topic:       "The Dying Sun",
		MCQs: []domain.Question{
			{
				Question:      "What is the sun?",
				Options:       []string{"A planet", "A star", "A comet"},
				CorrectAnswer: "A star",
			},
			{
				Question:      "Which planet do we live on?",
				Options:       []string{"Earth", "Mars", "Venus"},
				CorrectAnswer: "Earth",
			},
		},
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "gramture", "POSTGRES_PASSWORD": "grampass", "POSTGRES_DB": "gramdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://gramture:grampass@%s:%s/gramdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
