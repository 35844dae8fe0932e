package cli

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gramture-service/internal/app"
	"gramture-service/internal/config"
	"gramture-service/internal/domain"
	"gramture-service/internal/infra/memory"
	pginfra "gramture-service/internal/infra/postgres"
	redisinfra "gramture-service/internal/infra/redis"
	transport "gramture-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the gramture server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	topicTTL := config.TTLDuration(cfg.Topics.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	var bunDB *bun.DB
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bunDB = bun.NewDB(sqldb, pgdialect.New())
	}

	// Seed content doubles as the loader in no-database mode.
	seed := memory.NewContentStore(sampleTopics())

	var loader memory.TopicLoader = seed
	if pool != nil {
		loader = pginfra.NewTopicLoader(pool)
	}

	var topicRepo app.TopicRepository
	if redisClient != nil {
		topicRepo = redisinfra.NewTopicRepository(redisClient, loader, topicTTL)
	} else {
		topicRepo = memory.NewTopicRepository(loader, topicTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var (
		recordStore interface {
			app.RecordStore
			app.TopperStore
		} = memory.NewRecordStore()
		forumStore interface {
			app.ForumStore
			app.CommentStore
		} = memory.NewForumStore()
		productStore app.ProductStore = memory.NewProductStore(sampleProducts())
		contentStore app.ContentStore = seed
	)
	if bunDB != nil {
		recordStore = pginfra.NewRecordStore(bunDB)
		forumStore = pginfra.NewForumStore(bunDB)
		productStore = pginfra.NewProductStore(bunDB)
		contentStore = pginfra.NewContentStore(bunDB)
	}

	quizService := app.NewQuizService(topicRepo, sessions, recordStore)
	toppersService := app.NewToppersService(recordStore)
	forumService := app.NewForumService(forumStore, forumStore)
	storeService := app.NewStoreService(productStore)
	contentService := app.NewContentService(topicRepo, contentStore)

	api := transport.NewAPI(contentService, toppersService, forumService, storeService)
	wsHandler := transport.NewQuizWSHandler(quizService)

	router := api.Router()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.HandleFunc("/ws/quiz", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting gramture service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleTopics provides a minimal content set for running without a
// database.
func sampleTopics() []domain.Topic {
	return []domain.Topic{
		{
			ID:          "topic-1",
			Class:       "Class 9",
			SubCategory: "Book Lessons",
			Topic:       "The Dying Sun",
			Description: "Notes for the first lesson.",
			CreatedAt:   time.Now(),
			MCQs: []domain.Question{
				{
					Question:      "Which planet do we live on?",
					Options:       []string{"Mars", "Earth", "Venus"},
					CorrectAnswer: "Earth",
					Explanation:   "The lesson opens with our place in the universe.",
				},
				{
					Question:      "What is the sun?",
					Options:       []string{"A planet", "A star", "A comet"},
					CorrectAnswer: "A star",
				},
			},
		},
	}
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: "notes-9", Name: "Class 9 Notes (PDF bundle)", Price: 5},
		{ID: "guess-10", Name: "Class 10 Guess Paper", Price: 3},
	}
}
