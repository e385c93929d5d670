// Command seed writes a catalog document to the configured store.
package main

import (
	"context"
	"flag"
	"log"

	"vc7day/internal/bootstrap"
	"vc7day/internal/cache"
	"vc7day/internal/config"
	"vc7day/internal/models"
	"vc7day/internal/seed"
)

func main() {
	defaults := seed.DefaultDemoOptions()

	demo := flag.Bool("demo", false, "Generate a fake demo catalog instead of the default one")
	numCategories := flag.Int("categories", defaults.Categories, "Number of demo categories")
	numPlaylists := flag.Int("playlists", defaults.Playlists, "Number of demo playlists")
	numVideos := flag.Int("videos", defaults.Videos, "Number of demo videos")
	randSeed := flag.Int64("seed", 0, "Random seed for the demo catalog (0 = time based)")
	force := flag.Bool("force", false, "Overwrite an existing catalog")
	flag.Parse()

	log.Println("🌱 Catalog Seeder")
	log.Println("=================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	build := seed.DefaultDocument
	if *demo {
		factory := seed.NewFactory(seed.DemoOptions{
			Categories: *numCategories,
			Playlists:  *numPlaylists,
			Videos:     *numVideos,
			MaxDays:    defaults.MaxDays,
			Seed:       *randSeed,
		})
		build = factory.Document
		log.Printf("Target: %d categories, %d playlists, %d videos\n", *numCategories, *numPlaylists, *numVideos)
	}

	rt, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Seed: build, SkipCache: true})
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Printf("close error: %v", err)
		}
	}()

	ctx := context.Background()

	// Load writes the seed when the store is empty.
	doc, err := rt.Store.Load(ctx)
	if err != nil {
		log.Fatalf("❌ Loading catalog failed: %v", err)
	}

	if *force {
		doc = build()
		if err := rt.Store.Save(ctx, doc); err != nil {
			log.Fatalf("❌ Writing catalog failed: %v", err)
		}
		cache.Invalidate(ctx, cache.DocumentKey)
	}

	report(cfg, doc)
}

func report(cfg *config.Config, doc *models.Document) {
	log.Printf("Store: %s\n", cfg.StoreDriver)
	log.Printf("Catalog: %d categories, %d playlists, %d videos\n",
		len(doc.Categories), len(doc.Playlists), len(doc.Videos))
	log.Println("✨ All done!")
}
