// Command ingest converts Mint and EveryDollar exports into the unified
// CSV format and loads it into the database.
//
// Usage:
//
//	ingest [flags] overlap|unify|load|all
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/config"
	"github.com/warped-finance/backend/pkg/models"
)

func main() {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	os.Exit(run(c, os.Args[1:], os.Stderr))
}

// run executes the command line and returns the exit code.
func run(c config.Config, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("ingest", flag.ContinueOnError)
	flags.SetOutput(stderr)

	opts := options{}
	flags.StringVar(&opts.MintFile, "mint", c.Ingest.MintFile, "Mint export `file`")
	flags.StringVar(&opts.EveryDollarDir, "everydollar", c.Ingest.EveryDollarDir, "`directory` containing the EveryDollar exports")
	flags.StringVar(&opts.OverlapFile, "overlaps", c.Ingest.OverlapFile, "overlapping categories `file`")
	flags.StringVar(&opts.UnifiedFile, "unified", c.Ingest.UnifiedFile, "unified CSV `file`")
	flags.IntVar(&opts.MaxDistance, "max-distance", c.Ingest.MaxDistance, "maximum edit distance for similar category names")
	timeout := flags.Duration("timeout", 10*time.Minute, "abort the run after this duration")
	debug := flags.Bool("debug", false, "log debug messages")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: ingest [flags] overlap|unify|load|all")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	setupLogging(c.LogFormat, *debug, stderr)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	command := flags.Arg(0)
	var err error
	switch command {
	case "overlap":
		_, err = overlap(ctx, opts)
	case "unify":
		_, err = unify(ctx, opts)
	case "load":
		err = load(ctx, c.Database, opts)
	case "all":
		err = all(ctx, c.Database, opts)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		flags.Usage()
		return 2
	}

	if err != nil {
		log.Error().Err(err).Str("command", command).Msg("ingest failed")
		return 1
	}

	log.Info().Str("command", command).Msg("ingest finished")
	return 0
}

// setupLogging configures the global logger. Output is human readable
// unless the JSON log format is requested.
func setupLogging(format string, debug bool, out io.Writer) {
	output := out
	if format != "json" {
		output = zerolog.ConsoleWriter{Out: out}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()
}

// all runs the whole pipeline.
func all(ctx context.Context, db config.DatabaseConfig, opts options) error {
	if _, err := overlap(ctx, opts); err != nil {
		return err
	}

	if _, err := unify(ctx, opts); err != nil {
		return err
	}

	return load(ctx, db, opts)
}

// load connects to the database and loads the unified file.
func load(ctx context.Context, db config.DatabaseConfig, opts options) error {
	if err := models.Open(db); err != nil {
		return err
	}

	sqlDB, err := models.DB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	_, err = loadUnified(ctx, models.DB, opts)
	return err
}
