package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/halloffame"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/repository"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

func main() {
	var (
		file      = flag.String("file", "data/hall_of_fame.tsv", "Hall of Fame export (.tsv, .txt or .zip)")
		batchSize = flag.Int("batch", 0, "Rows per upsert batch (default HOF_BATCH_SIZE)")
		noCache   = flag.Bool("no-cache", false, "Do not clear the shared query cache after importing")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *batchSize <= 0 {
		*batchSize = cfg.HallOfFame.BatchSize
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// only a shared store is worth clearing; a memory cache dies with this process
	var cache *querycache.Cache
	if !*noCache && cfg.Cache.Type == config.CacheTypeRedis {
		cache, err = querycache.NewFromConfig(ctx, cfg.Cache, logger)
		if err != nil {
			logger.Warn("Query cache unavailable, entries will expire on their own", zap.Error(err))
			cache = nil
		}
	}

	repos := repository.NewRepositories(db, cfg.DB)
	importer := halloffame.NewImporter(repos.HallOfFame, *batchSize, cache, logger)

	logger.Info("Importing hall of fame export", zap.String("file", *file), zap.Int("batch_size", *batchSize))
	res, err := importer.ImportFile(ctx, *file)
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}

	fmt.Printf("Imported %s rows in %s batches (%s skipped)\n",
		humanize.Comma(int64(res.Rows)), humanize.Comma(int64(res.Batches)), humanize.Comma(int64(res.Skipped)))
	fmt.Printf("Linked %s images to cities, assigned %s primary images in %s\n",
		humanize.Comma(res.Linked), humanize.Comma(res.PrimariesAssigned), res.Duration.Round(time.Millisecond))
}
