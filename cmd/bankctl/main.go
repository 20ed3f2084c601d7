// Command bankctl manages problem bank datasets: validate a dataset
// file, scrape a fresh one, export it as a workbook or sync it into
// PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepdeck/problembank/internal/bank"
	"github.com/prepdeck/problembank/internal/export"
	"github.com/prepdeck/problembank/internal/platform/config"
	"github.com/prepdeck/problembank/internal/platform/database"
	"github.com/prepdeck/problembank/internal/scrape"
	"github.com/prepdeck/problembank/internal/store"
)

const usage = `usage: bankctl <command> [flags]

commands:
  validate   check a dataset file against the schema and invariants
  scrape     build a new dataset from the public problemset
  export     write a dataset as an xlsx workbook
  sync       push a dataset into PostgreSQL (BANK_DATABASE_URL)
`

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	var err error
	switch os.Args[1] {
	case "validate":
		err = runValidate(os.Args[2:])
	case "scrape":
		err = runScrape(ctx, os.Args[2:], logger)
	case "export":
		err = runExport(os.Args[2:])
	case "sync":
		err = runSync(ctx, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error(os.Args[1]+" failed", "error", err)
		os.Exit(1)
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("dataset", "", "dataset file (default: embedded dataset)")
	fs.Parse(args)

	b, err := loadBank(*path)
	if err != nil {
		return err
	}

	for _, tier := range bank.Difficulties() {
		fmt.Printf("%-8s %d problems\n", tier, len(b.Tier(tier)))
	}
	fmt.Printf("total    %d problems, %d topics\n", b.Len(), len(b.Topics()))
	return nil
}

func runScrape(ctx context.Context, args []string, logger *slog.Logger) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	planPath := fs.String("plan", "", "scrape plan yaml (default: 2 easy, 2 medium, 1 hard)")
	out := fs.String("out", "", "output file (default: plan output)")
	fs.Parse(args)

	plan := scrape.DefaultPlan()
	if *planPath != "" {
		var err error
		plan, err = scrape.LoadPlan(*planPath)
		if err != nil {
			return err
		}
	}
	if err := plan.Validate(); err != nil {
		return err
	}
	if *out != "" {
		plan.Output = *out
	}

	client := scrape.NewClient(30*time.Second, logger)
	doc, err := scrape.New(client, plan, logger).Run(ctx)
	if err != nil {
		return err
	}

	data, err := bank.EncodeCanonical(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(plan.Output, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", plan.Output, err)
	}

	logger.Info("dataset written", "path", plan.Output, "problems", doc.Len())
	return nil
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	path := fs.String("dataset", "", "dataset file (default: embedded dataset)")
	out := fs.String("out", "problems.xlsx", "output workbook")
	fs.Parse(args)

	b, err := loadBank(*path)
	if err != nil {
		return err
	}
	if err := export.WriteWorkbook(b.Document(), *out); err != nil {
		return err
	}

	fmt.Printf("wrote %d problems to %s\n", b.Len(), *out)
	return nil
}

func runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	path := fs.String("dataset", "", "dataset file (default: embedded dataset)")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("BANK_DATABASE_URL is not set")
	}

	b, err := loadBank(*path)
	if err != nil {
		return err
	}

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	st := store.New(db.Pool)
	if err := st.Init(ctx); err != nil {
		return err
	}
	if err := st.Sync(ctx, b.Document()); err != nil {
		return err
	}

	fmt.Printf("synced %d problems\n", b.Len())
	return nil
}

func loadBank(path string) (*bank.Bank, error) {
	if path == "" {
		return bank.Embedded()
	}
	return bank.LoadFile(path)
}
