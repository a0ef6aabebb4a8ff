package halloffame

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alexivanou/cityshare-api/internal/model"
	"github.com/alexivanou/cityshare-api/internal/querycache"
	"github.com/alexivanou/cityshare-api/internal/repository"
	"go.uber.org/zap"
)

// Result summarizes an import run
type Result struct {
	ParseStats
	Linked            int64         `json:"linked"`
	PrimariesAssigned int64         `json:"primariesAssigned"`
	Duration          time.Duration `json:"duration"`
}

// Importer loads an export into hall_of_fame_cache and links it to cities
type Importer struct {
	repo   repository.HallOfFameRepository
	parser *Parser
	cache  *querycache.Cache
	logger *zap.Logger
}

// NewImporter creates an importer. cache may be nil when no server shares one with the importer.
func NewImporter(repo repository.HallOfFameRepository, batchSize int, cache *querycache.Cache, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{
		repo:   repo,
		parser: NewParser(batchSize),
		cache:  cache,
		logger: logger,
	}
}

// ImportFile imports the export at path
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	stats, err := i.parser.ParseFile(path, i.upsert(ctx))
	return i.finish(ctx, stats, err, start)
}

// Import imports an export read from r
func (i *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	start := time.Now()
	stats, err := i.parser.Parse(r, i.upsert(ctx))
	return i.finish(ctx, stats, err, start)
}

func (i *Importer) upsert(ctx context.Context) func(batch []model.HallOfFameImage) error {
	return func(batch []model.HallOfFameImage) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := i.repo.Upsert(ctx, batch); err != nil {
			return err
		}
		i.logger.Debug("Upserted hall of fame batch", zap.Int("size", len(batch)))
		return nil
	}
}

func (i *Importer) finish(ctx context.Context, stats ParseStats, parseErr error, start time.Time) (Result, error) {
	res := Result{ParseStats: stats}
	if parseErr != nil {
		return res, fmt.Errorf("failed to import hall of fame export: %w", parseErr)
	}

	linked, err := i.repo.LinkByName(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to link hall of fame images: %w", err)
	}
	res.Linked = linked

	assigned, err := i.repo.EnsurePrimary(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to assign primary images: %w", err)
	}
	res.PrimariesAssigned = assigned

	if i.cache != nil && (stats.Rows > 0 || linked > 0 || assigned > 0) {
		// linking touches the detail entries of arbitrary cities
		if err := i.cache.Clear(ctx); err != nil {
			i.logger.Warn("Failed to clear query cache after import", zap.Error(err))
		}
	}

	res.Duration = time.Since(start)
	i.logger.Info("Hall of fame import finished",
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped),
		zap.Int("batches", stats.Batches),
		zap.Int64("linked", linked),
		zap.Int64("primaries_assigned", assigned),
		zap.Duration("duration", res.Duration))
	return res, nil
}
