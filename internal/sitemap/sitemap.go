// Package sitemap reproduces the site's build-time sitemap generator:
// static routes plus one description route per topic, written as XML and
// plaintext files.
package sitemap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gramture-service/internal/app"
	"gramture-service/internal/domain"
)

// StaticRoutes are the fixed pages of the site.
var StaticRoutes = []string{
	"/",
	"/privacy-policy",
	"/construction",
	"/about",
	"/discussion_forum",
	"/disclaimer",
	"/login",
}

// Generator enumerates routes and writes the sitemap files.
type Generator struct {
	topics  app.TopicRepository
	baseURL string
	now     func() time.Time
}

func NewGenerator(topics app.TopicRepository, baseURL string) *Generator {
	return &Generator{topics: topics, baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// WithClock overrides the generator clock for deterministic tests.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Routes returns static routes followed by one dynamic route per topic,
// oldest topic first.
func (g *Generator) Routes(ctx context.Context) ([]string, error) {
	topics, err := g.topics.ListTopics(ctx, "", "")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].CreatedAt.Before(topics[j].CreatedAt)
	})

	routes := append([]string(nil), StaticRoutes...)
	for _, t := range topics {
		if t.SubCategory == "" || t.Topic == "" {
			continue
		}
		routes = append(routes, "/description/"+domain.Slugify(t.SubCategory)+"/"+t.Slug())
	}
	return routes, nil
}

// BuildXML renders the urlset document: priority 1.00 for the root, 0.80
// for description routes, 0.70 for the rest; weekly changefreq; lastmod
// is today's date.
func (g *Generator) BuildXML(routes []string) string {
	date := g.now().Format("2006-01-02")

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://www.sitemaps.org/schemas/sitemap/0.9 http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd">` + "\n")
	for _, route := range routes {
		priority := "0.70"
		switch {
		case route == "/":
			priority = "1.00"
		case strings.Contains(route, "description"):
			priority = "0.80"
		}
		fmt.Fprintf(&b, "  <url>\n    <loc>%s%s</loc>\n    <lastmod>%s</lastmod>\n    <changefreq>weekly</changefreq>\n    <priority>%s</priority>\n  </url>\n",
			g.baseURL, route, date, priority)
	}
	b.WriteString("</urlset>")
	return b.String()
}

// BuildText renders the plaintext companion file.
func (g *Generator) BuildText(routes []string) string {
	var b strings.Builder
	b.WriteString("Sitemap URLs:\n\n")
	for _, route := range routes {
		b.WriteString(g.baseURL + route + "\n")
	}
	return b.String()
}

// Write generates both files under outDir.
func (g *Generator) Write(ctx context.Context, outDir string) error {
	routes, err := g.Routes(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "sitemap.xml"), []byte(g.BuildXML(routes)), 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, "sitemap.txt"), []byte(g.BuildText(routes)), 0o644)
}
