// Command generate builds the synthetic heritage tourism dataset, prints a
// per-year summary and optionally writes it to CSV, an export tree or the
// database.
//
// Usage:
//
//	go run ./cmd/generate -csv indian_heritage_tourism_data.csv
//	go run ./cmd/generate -seed 42 -export-dir exports -load
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/stwalsh4118/desiverse/api/internal/analytics"
	"github.com/stwalsh4118/desiverse/api/internal/config"
	"github.com/stwalsh4118/desiverse/api/internal/database"
	"github.com/stwalsh4118/desiverse/api/internal/export"
	"github.com/stwalsh4118/desiverse/api/internal/generator"
	"github.com/stwalsh4118/desiverse/api/internal/logger"
	"github.com/stwalsh4118/desiverse/api/internal/models"
	"github.com/stwalsh4118/desiverse/api/internal/repository"
)

const loadTimeout = 5 * time.Minute

type options struct {
	csvPath   string
	exportDir string
	load      bool
	appendTo  bool
	seed      uint64
	unclamped bool
	reference string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.StringVar(&o.csvPath, "csv", "", "write the dataset to this CSV file")
	fs.StringVar(&o.exportDir, "export-dir", "", "write a timestamped export tree below this directory")
	fs.BoolVar(&o.load, "load", false, "replace the stored dataset with the generated one")
	fs.BoolVar(&o.appendTo, "append", false, "with -load, append instead of replacing")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed (0 uses GENERATOR_SEED or a random seed)")
	fs.BoolVar(&o.unclamped, "unclamped", false, "keep negative draws instead of clamping them to zero")
	fs.StringVar(&o.reference, "reference", "", "reference tables YAML file (overrides GENERATOR_REFERENCE_FILE)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.appendTo && !o.load {
		return o, fmt.Errorf("-append requires -load")
	}
	return o, nil
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg.Generator, opts)

	appLog := logger.NewWithWriter(os.Stderr, cfg.Server.Env, cfg.Server.LogLevel)

	tables, genOpts, err := generator.FromConfig(cfg.Generator)
	if err != nil {
		return err
	}

	records := generator.New(tables, genOpts...).Generate()
	appLog.Info("Dataset generated", map[string]interface{}{
		"records": len(records),
		"states":  len(tables.States),
	})

	if err := printSummary(out, records); err != nil {
		return err
	}

	if opts.csvPath != "" {
		if err := export.WriteCSVFile(opts.csvPath, records); err != nil {
			return err
		}
		appLog.Info("Dataset written", map[string]interface{}{"path": opts.csvPath})
	}

	if opts.exportDir != "" {
		res, err := export.NewExporter(opts.exportDir).ExportAll(records)
		if err != nil {
			return err
		}
		appLog.Info("Export complete", map[string]interface{}{
			"base_directory": res.BaseDir,
			"files":          len(res.Files),
		})
	}

	if opts.load {
		if err := store(cfg, records, opts.appendTo, appLog); err != nil {
			return err
		}
	}
	return nil
}

// applyFlags lets command-line flags override the environment.
func applyFlags(cfg *config.GeneratorConfig, o options) {
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.unclamped {
		cfg.ClampNegative = false
	}
	if o.reference != "" {
		cfg.ReferenceFile = o.reference
	}
}

func store(cfg *config.Config, records []models.TourismRecord, appendTo bool, appLog *logger.Logger) error {
	if err := cfg.ValidateDatabase(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewTourismRepository(db)
	var n int64
	if appendTo {
		n, err = repo.Append(ctx, records)
	} else {
		n, err = repo.ReplaceAll(ctx, records)
	}
	if err != nil {
		return err
	}

	appLog.Info("Dataset stored", map[string]interface{}{
		"rows":   n,
		"append": appendTo,
		"table":  repository.TableName,
	})
	return nil
}

func printSummary(w io.Writer, records []models.TourismRecord) error {
	groups := analytics.GroupBy(records, analytics.DimYear)
	analytics.SortGroups(groups, analytics.SortByKey)

	if _, err := fmt.Fprintf(w, "Generated %d records\n", len(records)); err != nil {
		return err
	}
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "%s: %d records, %d visits, %d funding\n",
			g.Label(), g.Count, g.Visits, g.Funding); err != nil {
			return err
		}
	}
	visits, funding := analytics.Totals(records)
	_, err := fmt.Fprintf(w, "Total: %d visits, %d funding, correlation %.3f\n",
		visits, funding, analytics.Correlation(records))
	return err
}
