package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/importer"
	"github.com/warped-finance/backend/pkg/importer/parser/everydollar"
	"github.com/warped-finance/backend/pkg/importer/parser/mint"
	"gorm.io/gorm"
)

// options are the file locations of one run.
type options struct {
	MintFile       string
	EveryDollarDir string
	OverlapFile    string
	UnifiedFile    string
	MaxDistance    int
}

// overlap finds the Mint categories that also exist in the EveryDollar
// taxonomy and writes them to the overlap file.
func overlap(ctx context.Context, opts options) ([]importer.Overlap, error) {
	records, err := everydollar.ParseDir(ctx, opts.EveryDollarDir)
	if err != nil {
		return nil, err
	}
	taxonomy := everydollar.Taxonomy(records)

	f, err := os.Open(opts.MintFile)
	if err != nil {
		return nil, fmt.Errorf("could not open the Mint export: %w", err)
	}
	defer f.Close()

	categories, err := mint.Categories(f)
	if err != nil {
		return nil, err
	}

	overlaps := importer.FindOverlaps(categories, taxonomy)
	for _, m := range importer.NearMisses(categories, taxonomy, opts.MaxDistance) {
		log.Warn().Str("category", m.Category).Str("similar", m.Candidate).Int("distance", m.Distance).Msg("overlap: similar category names")
	}

	err = writeFile(opts.OverlapFile, func(f *os.File) error {
		return importer.WriteOverlaps(f, overlaps)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("mint", len(categories)).Int("everydollar", len(taxonomy)).Int("overlapping", len(overlaps)).Str("file", opts.OverlapFile).Msg("overlap: categories reconciled")
	return overlaps, nil
}

// unify converts both exports with the groups from the overlap file and
// writes the unified CSV file.
func unify(ctx context.Context, opts options) ([]importer.Record, error) {
	o, err := os.Open(opts.OverlapFile)
	if err != nil {
		return nil, fmt.Errorf("could not open the overlapping categories, run the overlap command first: %w", err)
	}
	defer o.Close()

	overlaps, err := importer.ReadOverlaps(o)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(opts.MintFile)
	if err != nil {
		return nil, fmt.Errorf("could not open the Mint export: %w", err)
	}
	defer f.Close()

	records, err := mint.Parse(f, importer.GroupsFromOverlaps(overlaps))
	if err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}

	everyDollar, err := everydollar.ParseDir(ctx, opts.EveryDollarDir)
	if err != nil {
		return nil, err
	}
	records = append(records, everyDollar...)

	unified := importer.Unify(records)

	err = writeFile(opts.UnifiedFile, func(f *os.File) error {
		return importer.WriteCSV(f, unified)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("records", len(records)).Int("unified", len(unified)).Str("file", opts.UnifiedFile).Msg("unify: records written")
	return unified, nil
}

// loadUnified reads the unified CSV file and loads it into the database.
func loadUnified(ctx context.Context, db *gorm.DB, opts options) (importer.LoadReport, error) {
	f, err := os.Open(opts.UnifiedFile)
	if err != nil {
		return importer.LoadReport{}, fmt.Errorf("could not open the unified file, run the unify command first: %w", err)
	}
	defer f.Close()

	records, err := importer.ReadCSV(f)
	if err != nil {
		return importer.LoadReport{}, err
	}

	report, err := importer.Load(ctx, db, records)
	log.Info().
		Interface("groups", report.Groups).
		Interface("categories", report.Categories).
		Interface("tags", report.Tags).
		Interface("transactions", report.Transactions).
		Interface("associations", report.Associations).
		Msg("load: report")

	return report, err
}

// writeFile writes to a temporary file next to path and renames it to path
// once write succeeded, so that a failed run leaves no partial output.
func writeFile(path string, write func(*os.File) error) error {
	err := os.MkdirAll(filepath.Dir(path), os.ModePerm)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
