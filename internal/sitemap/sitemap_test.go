package sitemap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gramture-service/internal/domain"
	"gramture-service/internal/infra/memory"
)

func testGenerator() *Generator {
	loader := memory.NewStaticTopicLoader([]domain.Topic{
		{
			ID:          "t2",
			SubCategory: "Book Lessons",
			Topic:       "The Dying Sun",
			CreatedAt:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "t1",
			SubCategory: "Past Papers",
			Topic:       "2023 Paper",
			CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{ID: "t3", SubCategory: "", Topic: "orphan"},
	})
	repo := memory.NewTopicRepository(loader, time.Minute)
	return NewGenerator(repo, "https://gramture.com/").WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	})
}

func TestRoutesOrder(t *testing.T) {
	gen := testGenerator()

	routes, err := gen.Routes(context.Background())
	if err != nil {
		t.Fatalf("routes: %v", err)
	}

	if len(routes) != len(StaticRoutes)+2 {
		t.Fatalf("expected %d routes, got %d: %v", len(StaticRoutes)+2, len(routes), routes)
	}
	if routes[0] != "/" {
		t.Fatalf("expected root first, got %s", routes[0])
	}

	// Dynamic routes follow the static block, oldest topic first, and the
	// topic with no subcategory is dropped.
	dynamic := routes[len(StaticRoutes):]
	if dynamic[0] != "/description/past-papers/2023-paper" {
		t.Fatalf("unexpected first dynamic route: %s", dynamic[0])
	}
	if dynamic[1] != "/description/book-lessons/the-dying-sun" {
		t.Fatalf("unexpected second dynamic route: %s", dynamic[1])
	}
}

func TestBuildXML(t *testing.T) {
	gen := testGenerator()

	routes, err := gen.Routes(context.Background())
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	xml := gen.BuildXML(routes)

	if !strings.HasPrefix(xml, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing xml declaration:\n%s", xml)
	}
	if !strings.Contains(xml, "<loc>https://gramture.com/</loc>\n    <lastmod>2026-03-01</lastmod>\n    <changefreq>weekly</changefreq>\n    <priority>1.00</priority>") {
		t.Fatalf("root url block wrong:\n%s", xml)
	}
	if !strings.Contains(xml, "<loc>https://gramture.com/description/past-papers/2023-paper</loc>") {
		t.Fatalf("missing dynamic route:\n%s", xml)
	}
	if !strings.Contains(xml, "<priority>0.80</priority>") {
		t.Fatalf("description routes should carry 0.80:\n%s", xml)
	}
	if !strings.Contains(xml, "<priority>0.70</priority>") {
		t.Fatalf("static routes should carry 0.70:\n%s", xml)
	}
	if !strings.HasSuffix(xml, "</urlset>") {
		t.Fatalf("missing closing tag:\n%s", xml)
	}
}

func TestBuildText(t *testing.T) {
	gen := testGenerator()

	text := gen.BuildText([]string{"/", "/about"})
	want := "Sitemap URLs:\n\nhttps://gramture.com/\nhttps://gramture.com/about\n"
	if text != want {
		t.Fatalf("unexpected text output:\n%q\nwant\n%q", text, want)
	}
}

func TestWriteFiles(t *testing.T) {
	gen := testGenerator()
	dir := t.TempDir()

	if err := gen.Write(context.Background(), dir); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, name := range []string{"sitemap.xml", "sitemap.txt"} {
		if _, err := os.ReadFile(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected %s written: %v", name, err)
		}
	}
}
