package cli

import (
	"context"
	"log"
	"time"

	"gramture-service/internal/config"
	"gramture-service/internal/infra/memory"
	pginfra "gramture-service/internal/infra/postgres"
	"gramture-service/internal/sitemap"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSitemapCmd regenerates the sitemap files from current content.
func NewSitemapCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap",
		Short: "Generate sitemap.xml and sitemap.txt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSitemap(cmd.Context(), *configPath)
		},
	}
}

func runSitemap(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var loader memory.TopicLoader = memory.NewStaticTopicLoader(nil)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = pginfra.NewTopicLoader(pool)
	}

	baseURL := cfg.Sitemap.BaseURL
	if baseURL == "" {
		baseURL = "https://gramture.com"
	}
	outDir := cfg.Sitemap.OutDir
	if outDir == "" {
		outDir = "public"
	}

	repo := memory.NewTopicRepository(loader, time.Minute)
	gen := sitemap.NewGenerator(repo, baseURL)
	if err := gen.Write(ctx, outDir); err != nil {
		return err
	}
	log.Printf("sitemap written to %s", outDir)
	return nil
}
