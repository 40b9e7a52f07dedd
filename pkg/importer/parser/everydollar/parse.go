// Package everydollar parses the transaction exports of EveryDollar.
// EveryDollar exports one file per budget month.
package everydollar

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
	"github.com/warped-finance/backend/internal/types"
	"github.com/warped-finance/backend/pkg/importer"
	"github.com/warped-finance/backend/pkg/importer/parser"
	"github.com/warped-finance/backend/pkg/models"
	"github.com/warped-finance/backend/pkg/normalize"
	"golang.org/x/sync/errgroup"
)

// Column names after normalization
const (
	Date     = "date"
	Merchant = "merchant"
	Amount   = "amount"
	Item     = "item"
	Group    = "group"
)

// FilePattern matches the export files in a directory.
const FilePattern = "*.csv"

// Parse parses a single EveryDollar export.
func Parse(f io.Reader) ([]importer.Record, error) {
	reader, err := parser.NewReader(f)
	if err != nil {
		return nil, err
	}

	records := []importer.Record{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		date, err := types.ParseDate(row.Get(Date))
		if err != nil {
			log.Warn().Int("line", reader.Line()).Str("date", row.Get(Date)).Msg("everydollar: unparseable date")
		}

		records = append(records, importer.Record{
			Date:        date,
			Description: normalize.Name(row.Get(Merchant)),
			Amount:      normalize.Amount(row.Get(Amount)),
			Category:    normalize.Name(row.Get(Item)),
			GroupName:   normalize.Name(row.Get(Group)),
			Tags:        []string{},
			Source:      models.SourceEveryDollar,
		})
	}

	return records, nil
}

// Files returns the export files in the directory, sorted by name.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read the EveryDollar directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && glob.Glob(FilePattern, e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	return files, nil
}

// ParseFiles parses the files concurrently. The records are returned
// in the order of the files. If any file cannot be parsed, no records
// are returned.
func ParseFiles(ctx context.Context, files []string) ([]importer.Record, error) {
	results := make([][]importer.Record, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			records, err := Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(file), err)
			}

			results[i] = records
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := []importer.Record{}
	for _, r := range results {
		records = append(records, r...)
	}

	return records, nil
}

// ParseDir parses all export files in the directory.
func ParseDir(ctx context.Context, dir string) ([]importer.Record, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		log.Warn().Str("directory", dir).Msg("everydollar: no export files found")
		return []importer.Record{}, nil
	}

	log.Debug().Str("directory", dir).Int("files", len(files)).Msg("everydollar: parsing exports")
	return ParseFiles(ctx, files)
}

// Taxonomy returns the group of every category in the records.
// If a category occurs in several groups, the last occurrence wins.
func Taxonomy(records []importer.Record) importer.CategoryGroups {
	taxonomy := importer.CategoryGroups{}
	for _, r := range records {
		if r.Category != "" && r.GroupName != "" {
			taxonomy[r.Category] = r.GroupName
		}
	}

	return taxonomy
}
