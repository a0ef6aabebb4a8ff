// Package halloffame imports the external Hall of Fame image export into the local cache.
package halloffame

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexivanou/cityshare-api/internal/model"
)

const defaultBatchSize = 500

// Export columns, tab separated
const (
	colHofImageID = iota
	colCityName
	colCreatorName
	colThumbnail
	colMedium
	colLarge
	colOriginal
	colViews
	colFavorites

	requiredColumns = colOriginal + 1
)

// ParseStats counts what a parse run saw
type ParseStats struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
	Batches int `json:"batches"`
}

// Parser streams a Hall of Fame TSV export in batches
type Parser struct {
	batchSize int
}

// NewParser creates a parser; a non-positive batch size uses the default
func NewParser(batchSize int) *Parser {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Parser{batchSize: batchSize}
}

// ParseFile opens path, or the first .tsv/.txt entry when path is a zip archive, and parses it
func (p *Parser) ParseFile(path string, callback func(batch []model.HallOfFameImage) error) (ParseStats, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return p.parseZip(path, callback)
	}

	file, err := os.Open(path)
	if err != nil {
		return ParseStats{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return p.Parse(file, callback)
}

func (p *Parser) parseZip(path string, callback func(batch []model.HallOfFameImage) error) (ParseStats, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return ParseStats{}, fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		name := strings.ToLower(f.Name)
		if !strings.HasSuffix(name, ".tsv") && !strings.HasSuffix(name, ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ParseStats{}, fmt.Errorf("failed to open %s in zip: %w", f.Name, err)
		}
		defer rc.Close()
		return p.Parse(rc, callback)
	}

	return ParseStats{}, fmt.Errorf("no .tsv or .txt file found in %s", path)
}

// Parse reads rows from reader and hands them to callback in batches. Comment lines, the header
// row and malformed rows are skipped. Within a batch a repeated hofImageId keeps the last row.
func (p *Parser) Parse(reader io.Reader, callback func(batch []model.HallOfFameImage) error) (ParseStats, error) {
	var stats ParseStats

	buf := make([]byte, 0, 64*1024)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(buf, 1024*1024)

	batch := make([]model.HallOfFameImage, 0, p.batchSize)
	// hofImageId -> index in batch
	seen := make(map[string]int)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stats.Batches++
		if err := callback(batch); err != nil {
			return fmt.Errorf("batch %d: %w", stats.Batches, err)
		}
		batch = batch[:0]
		seen = make(map[string]int)
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "\t")
		if strings.EqualFold(strings.TrimSpace(parts[0]), "hofImageId") {
			continue
		}

		img, ok := parseRow(parts)
		if !ok {
			stats.Skipped++
			continue
		}
		stats.Rows++

		if idx, exists := seen[img.HofImageID]; exists {
			batch[idx] = img
			continue
		}
		batch = append(batch, img)
		seen[img.HofImageID] = len(batch) - 1

		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to scan export: %w", err)
	}
	if err := flush(); err != nil {
		return stats, err
	}
	return stats, nil
}

func parseRow(parts []string) (model.HallOfFameImage, bool) {
	if len(parts) < requiredColumns {
		return model.HallOfFameImage{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	img := model.HallOfFameImage{
		HofImageID:        parts[colHofImageID],
		CityName:          parts[colCityName],
		CreatorName:       parts[colCreatorName],
		ImageURLThumbnail: parts[colThumbnail],
		ImageURLMedium:    parts[colMedium],
		ImageURLLarge:     parts[colLarge],
		ImageURLOriginal:  parts[colOriginal],
	}
	if img.HofImageID == "" || img.CityName == "" || img.ImageURLOriginal == "" {
		return model.HallOfFameImage{}, false
	}

	var ok bool
	if img.Views, ok = optionalCount(parts, colViews); !ok {
		return model.HallOfFameImage{}, false
	}
	if img.Favorites, ok = optionalCount(parts, colFavorites); !ok {
		return model.HallOfFameImage{}, false
	}
	return img, true
}

// optionalCount parses a trailing counter column; missing or empty means zero
func optionalCount(parts []string, col int) (int64, bool) {
	if len(parts) <= col || parts[col] == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(parts[col], 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
