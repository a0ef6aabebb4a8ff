// Package stats gathers process, database and query-cache statistics for the admin
// stats endpoint and the stats CLI.
package stats

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/alexivanou/cityshare-api/internal/database"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

type Stats struct {
	Timestamp time.Time         `json:"timestamp"`
	Memory    MemoryStats       `json:"memory"`
	Database  DatabaseStats     `json:"database"`
	Cache     *querycache.Stats `json:"cache,omitempty"`
	Runtime   RuntimeStats      `json:"runtime"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc"`
	TotalAlloc   uint64 `json:"total_alloc"`
	Sys          uint64 `json:"sys"`
	NumGC        uint32 `json:"num_gc"`
	HeapAlloc    uint64 `json:"heap_alloc"`
	HeapInuse    uint64 `json:"heap_inuse"`
	HeapReleased uint64 `json:"heap_released"`
}

type DatabaseStats struct {
	Type         string                 `json:"type"`
	TotalRecords int64                  `json:"total_records"`
	SizeBytes    int64                  `json:"size_bytes"`
	TableStats   []TableStat            `json:"table_stats"`
	Pool         PoolStats              `json:"pool"`
	Health       *database.HealthStatus `json:"health,omitempty"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type PoolStats struct {
	MaxOpen      int   `json:"max_open"`
	Open         int   `json:"open"`
	InUse        int   `json:"in_use"`
	Idle         int   `json:"idle"`
	WaitCount    int64 `json:"wait_count"`
	WaitDuration int64 `json:"wait_duration_ms"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// sizeQueries holds the per-dialect queries for the whole database and for one table.
// The sqlite table query needs dbstat, which only exists when sqlite was built with
// SQLITE_ENABLE_DBSTAT_VTAB; a failure leaves the size at zero.
type sizeQueries struct {
	database string
	table    string
}

var dialectSizes = map[config.DBType]sizeQueries{
	config.DBTypePostgreSQL: {
		database: "SELECT pg_database_size(current_database())",
		table:    "SELECT COALESCE(pg_total_relation_size(?::regclass), 0)",
	},
	config.DBTypeMemory: {
		database: "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()",
		table:    "SELECT COALESCE(SUM(pgsize), 0) FROM dbstat WHERE name = ?",
	},
}

// memStatsTTL bounds how often runtime.ReadMemStats stops the world
const memStatsTTL = 5 * time.Second

type memSnapshot struct {
	mu    sync.Mutex
	stats MemoryStats
	taken time.Time
}

type Collector struct {
	db      *sqlx.DB
	dbType  config.DBType
	cache   *querycache.Cache
	health  *database.HealthChecker
	clock   clockwork.Clock
	started time.Time
	mem     memSnapshot
}

// NewCollector creates a collector. cache and health may be nil when the caller has neither,
// as the stats CLI does.
func NewCollector(db *sqlx.DB, cfg config.DBConfig, cache *querycache.Cache, health *database.HealthChecker) *Collector {
	clock := clockwork.NewRealClock()
	return &Collector{
		db:      db,
		dbType:  cfg.Type,
		cache:   cache,
		health:  health,
		clock:   clock,
		started: clock.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	dbStats, err := c.databaseStats(ctx)
	if err != nil {
		return nil, err
	}

	out := &Stats{
		Timestamp: c.clock.Now(),
		Memory:    c.memoryStats(),
		Database:  dbStats,
		Runtime: RuntimeStats{
			NumGoroutines: runtime.NumGoroutine(),
			NumCPU:        runtime.NumCPU(),
			UptimeSeconds: int64(c.clock.Since(c.started).Seconds()),
		},
	}
	if c.cache != nil {
		cs := c.cache.Stats()
		out.Cache = &cs
	}
	return out, nil
}

func (c *Collector) memoryStats() MemoryStats {
	c.mem.mu.Lock()
	defer c.mem.mu.Unlock()

	if !c.mem.taken.IsZero() && c.clock.Since(c.mem.taken) < memStatsTTL {
		return c.mem.stats
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	c.mem.stats = MemoryStats{
		Alloc:        m.Alloc,
		TotalAlloc:   m.TotalAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapAlloc:    m.HeapAlloc,
		HeapInuse:    m.HeapInuse,
		HeapReleased: m.HeapReleased,
	}
	c.mem.taken = c.clock.Now()
	return c.mem.stats
}

func (c *Collector) databaseStats(ctx context.Context) (DatabaseStats, error) {
	queries := dialectSizes[c.dbType]

	tables, err := c.tableStats(ctx, queries.table)
	if err != nil {
		return DatabaseStats{}, err
	}

	out := DatabaseStats{
		Type:         string(c.dbType),
		TotalRecords: lo.SumBy(tables, func(ts TableStat) int64 { return ts.RowCount }),
		TableStats:   tables,
		Pool:         c.poolStats(),
	}
	if queries.database != "" {
		// best effort: a missing size is reported as zero
		_ = c.db.GetContext(ctx, &out.SizeBytes, queries.database)
	}
	if c.health != nil {
		h := c.health.Status()
		out.Health = &h
	}
	return out, nil
}

func (c *Collector) poolStats() PoolStats {
	s := c.db.Stats()
	return PoolStats{
		MaxOpen:      s.MaxOpenConnections,
		Open:         s.OpenConnections,
		InUse:        s.InUse,
		Idle:         s.Idle,
		WaitCount:    s.WaitCount,
		WaitDuration: s.WaitDuration.Milliseconds(),
	}
}

// tableStats counts the rows of every schema table. Tables that cannot be counted,
// e.g. before migrations ran, are left out.
func (c *Collector) tableStats(ctx context.Context, sizeQuery string) ([]TableStat, error) {
	names := lo.Keys(database.TableColumns)
	sort.Strings(names)

	out := make([]TableStat, 0, len(names))
	for _, name := range names {
		stat := TableStat{Name: name}
		if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+name); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}
		if sizeQuery != "" {
			_ = c.db.GetContext(ctx, &stat.SizeBytes, c.db.Rebind(sizeQuery), name)
		}
		out = append(out, stat)
	}
	return out, nil
}
