package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nmoroz/shopfile/db"
	"github.com/nmoroz/shopfile/internal/domain/product"
	"github.com/nmoroz/shopfile/internal/storage/jsonfile"
)

// seedRow mirrors the product creation payload. Thumbnails default to
// an empty list when omitted.
type seedRow struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Code        string          `json:"code"`
	Price       decimal.Decimal `json:"price"`
	Status      bool            `json:"status"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Thumbnails  []string        `json:"thumbnails"`
}

func main() {
	var (
		storageDir   string
		productsFile string
		seedFile     string
	)

	flag.StringVar(&storageDir, "storage-dir", "data", "directory holding the collection files")
	flag.StringVar(&productsFile, "products-file", "products.json", "product collection file name")
	flag.StringVar(&seedFile, "seed-file", "", "products seed JSON file, .gz accepted (empty: embedded default seed)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, storageDir, productsFile, seedFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, storageDir, productsFile, seedFile string) error {
	data, err := readSeed(seedFile)
	if err != nil {
		return errors.Wrap(err, "read seed")
	}

	var rows []seedRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return errors.Wrap(err, "parse seed JSON")
	}

	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return errors.Wrap(err, "create storage dir")
	}

	store, err := jsonfile.NewProductStore(filepath.Join(storageDir, productsFile), zap.NewNop())
	if err != nil {
		return errors.Wrap(err, "open product store")
	}

	slog.Info("upserting products", slog.Int("count", len(rows)))

	// The upsert path merges by title, so a repeated row restocks the
	// existing product instead of inserting a duplicate.
	for _, row := range rows {
		p, err := store.Upsert(ctx, product.Draft{
			Title:       row.Title,
			Description: row.Description,
			Code:        row.Code,
			Price:       row.Price,
			Status:      row.Status,
			Stock:       row.Stock,
			Category:    row.Category,
			Thumbnails:  row.Thumbnails,
		})
		if err != nil {
			return errors.Wrapf(err, "upsert product %q", row.Title)
		}

		slog.Info("upserted product",
			slog.Int("id", p.ID),
			slog.String("title", p.Title),
			slog.Int("stock", p.Stock),
		)
	}

	return nil
}

// readSeed returns the seed document: the embedded default when no
// path is given, otherwise the file's contents, gunzipped for .gz
// paths.
func readSeed(path string) ([]byte, error) {
	if path == "" {
		slog.Info("using embedded default seed")
		return db.SeedProducts, nil
	}

	slog.Info("reading seed file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip")
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(r)
}
