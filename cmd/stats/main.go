package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/stats"
	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	health := database.NewHealthChecker(db, cfg.DB.QueryTimeout, database.DefaultReconnectPolicy, clockwork.NewRealClock(), logger)
	if err := health.Check(ctx); err != nil {
		logger.Fatal("Database is unreachable", zap.Error(err))
	}

	var cache *querycache.Cache
	if cfg.Cache.Type == config.CacheTypeRedis {
		if cache, err = querycache.NewFromConfig(ctx, cfg.Cache, logger); err != nil {
			logger.Warn("Query cache unavailable, omitting cache statistics", zap.Error(err))
			cache = nil
		}
	}

	logger.Info("Collecting statistics...", zap.String("db_type", string(cfg.DB.Type)))

	collector := stats.NewCollector(db, cfg.DB, cache, health)
	statistics, err := collector.Collect(ctx)
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

func printHumanReadable(s *stats.Stats) {
	fmt.Println("=== CityShare Statistics ===")
	fmt.Printf("Timestamp: %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("--- Memory Statistics ---")
	fmt.Printf("Allocated:        %s\n", humanize.IBytes(s.Memory.Alloc))
	fmt.Printf("Total Allocated:  %s\n", humanize.IBytes(s.Memory.TotalAlloc))
	fmt.Printf("Heap In Use:      %s\n", humanize.IBytes(s.Memory.HeapInuse))
	fmt.Printf("GC Cycles:        %s\n", humanize.Comma(int64(s.Memory.NumGC)))
	fmt.Println()

	fmt.Println("--- Database Statistics ---")
	fmt.Printf("Type:            %s\n", s.Database.Type)
	fmt.Printf("Total Records:   %s\n", humanize.Comma(s.Database.TotalRecords))
	if s.Database.SizeBytes > 0 {
		fmt.Printf("Size:            %s\n", humanize.Bytes(uint64(s.Database.SizeBytes)))
	}
	if h := s.Database.Health; h != nil {
		fmt.Printf("Healthy:         %t (checked %s)\n", h.Healthy, humanize.Time(h.CheckedAt))
	}
	fmt.Printf("Pool:            %d open, %d in use, %d idle (max %d)\n",
		s.Database.Pool.Open, s.Database.Pool.InUse, s.Database.Pool.Idle, s.Database.Pool.MaxOpen)
	fmt.Println()
	fmt.Println("Table Statistics:")
	for _, ts := range s.Database.TableStats {
		fmt.Printf("  %-25s: %10s rows", ts.Name, humanize.Comma(ts.RowCount))
		if ts.SizeBytes > 0 {
			fmt.Printf(" (%s)", humanize.Bytes(uint64(ts.SizeBytes)))
		}
		fmt.Println()
	}
	fmt.Println()

	if c := s.Cache; c != nil {
		fmt.Println("--- Query Cache ---")
		fmt.Printf("Store:           %s\n", c.Type)
		fmt.Printf("Hits / Misses:   %s / %s\n", humanize.Comma(int64(c.Hits)), humanize.Comma(int64(c.Misses)))
		fmt.Println()
	}

	fmt.Println("--- Runtime Statistics ---")
	fmt.Printf("Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Printf("CPUs:            %d\n", s.Runtime.NumCPU)
	fmt.Printf("Uptime:          %s\n", time.Duration(s.Runtime.UptimeSeconds)*time.Second)
}
