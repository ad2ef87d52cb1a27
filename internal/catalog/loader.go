package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gofresh/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads one gzipped JSON-lines product file.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// fileLoader implements Loader for files on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based product loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped product file, one JSON product per line.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.Product, error) {
	l.logger.Info().Str("file", path).Msg("loading product file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open product file")
		return nil, fmt.Errorf("failed to open product file %s: %w", path, err)
	}
	defer file.Close()

	products, err := decodeProducts(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read product file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("product file loaded successfully")

	return products, nil
}

// decodeProducts reads gzipped JSON lines from r. Blank lines are skipped;
// a malformed line fails the whole file.
func decodeProducts(ctx context.Context, r io.Reader, source string) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p model.Product
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("invalid product on line %d of %s: %w", lineNo, source, err)
		}
		if err := normalize(&p); err != nil {
			return nil, fmt.Errorf("invalid product on line %d of %s: %w", lineNo, source, err)
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading product file %s: %w", source, err)
	}

	return products, nil
}

// normalize checks required fields and fills in the product kind.
func normalize(p *model.Product) error {
	if p.ID == "" {
		return fmt.Errorf("missing id")
	}
	if p.Price < 0 || (p.SalePrice != nil && *p.SalePrice < 0) {
		return fmt.Errorf("negative price for %s", p.ID)
	}

	switch p.Kind {
	case model.ProductKindCatalog, model.ProductKindDeal:
	case "":
		p.Kind = model.ProductKindCatalog
		if p.SalePrice != nil || p.DealEndsAt != nil {
			p.Kind = model.ProductKindDeal
		}
	default:
		return fmt.Errorf("unknown kind %q for %s", p.Kind, p.ID)
	}
	return nil
}
