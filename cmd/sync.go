package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"csv-importer/feature/imports"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const objectPrefix = "s3:"

var (
	dryRunImport  bool
	yesConfirm    bool
	archiveReport bool
)

// syncCmd reconciles a CSV with a profile's table.
var syncCmd = &cobra.Command{
	Use:   "sync <profile> <file|s3:key|->",
	Short: "Reconcile a CSV with the profile's table (update changed, insert new)",
	Long: `Reconcile a CSV file with the table of an import profile.

Rows are matched by the profile key. Matched rows with differing values are
updated, unmatched rows are inserted. Without --yes a dry run is shown first
and the changes are applied after confirmation.

Examples:
  # Preview only
  sync furniture ./furniture.csv --dry-run

  # Apply after interactive confirmation
  sync furniture ./furniture.csv

  # Read from the storage bucket and apply without prompting
  sync furniture s3:sources/furniture.csv --yes`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), imports.ModeSync, args[0], args[1])
	},
}

// bulkCmd inserts every CSV row without reconciling.
var bulkCmd = &cobra.Command{
	Use:   "bulk <profile> <file|s3:key|->",
	Short: "Insert every CSV row with chunked multi-row inserts",
	Long: `Insert every row of a CSV file into the table of an import profile.

Existing rows are not looked up. Rows sharing the profile's unique attributes
are collapsed according to the collision policy before insertion.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd.Context(), imports.ModeBulk, args[0], args[1])
	},
}

func init() {
	for _, c := range []*cobra.Command{syncCmd, bulkCmd} {
		c.Flags().BoolVar(&dryRunImport, "dry-run", false, "Classify rows without writing")
		c.Flags().BoolVar(&yesConfirm, "yes", false, "Apply without the confirmation prompt (non-interactive)")
		c.Flags().BoolVar(&archiveReport, "archive", false, "Write the run report to the storage bucket")
		RootCmd.AddCommand(c)
	}
}

func runImport(ctx context.Context, mode, name, source string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	l := rt.logger
	defer l.Sync()

	if err := rt.connectDatabase(); err != nil {
		return err
	}
	if strings.HasPrefix(source, objectPrefix) || archiveReport {
		if err := rt.connectStorage(); err != nil {
			return err
		}
	}

	svc, err := rt.importService()
	if err != nil {
		return err
	}

	if source == "-" && !dryRunImport && !yesConfirm {
		return errors.New("reading from stdin requires --yes or --dry-run")
	}

	run := func(dryRun bool) (*imports.Report, error) {
		in, err := openSource(ctx, svc, source)
		if err != nil {
			return nil, err
		}
		defer in.Close()

		opts := imports.RunOptions{DryRun: dryRun, Source: source}
		if mode == imports.ModeBulk {
			return svc.Bulk(ctx, name, in, opts)
		}
		return svc.Sync(ctx, name, in, opts)
	}

	l.Info("Starting import", zap.String("profile", name), zap.String("mode", mode), zap.String("source", source))

	// Step 1: Plan (unless the caller confirmed up front)
	if dryRunImport || !yesConfirm {
		plan, err := run(true)
		if plan != nil {
			printImportReport(l, plan)
		}
		if err != nil {
			return fmt.Errorf("failed to plan import: %w", err)
		}
		if dryRunImport {
			l.Info("Dry-run mode: No changes were made.")
			return nil
		}
		if plan.Result.New == 0 && plan.Result.Updated == 0 {
			l.Info("No changes required.")
			return nil
		}
		if !confirmImport() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	// Step 2: Apply
	report, err := run(false)
	if report != nil {
		printImportReport(l, report)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return nil
}

// openSource opens a local file, stdin ("-") or a storage object ("s3:key").
func openSource(ctx context.Context, svc *imports.Service, source string) (io.ReadCloser, error) {
	switch {
	case source == "-":
		return io.NopCloser(os.Stdin), nil
	case strings.HasPrefix(source, objectPrefix):
		return svc.OpenSource(ctx, strings.TrimPrefix(source, objectPrefix))
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", source, err)
		}
		return f, nil
	}
}

// printImportReport prints a run report using logger.
func printImportReport(l *zap.Logger, r *imports.Report) {
	fields := []zap.Field{
		zap.String("run_id", r.RunID),
		zap.String("profile", r.Profile),
		zap.String("table", r.Table),
		zap.String("mode", r.Mode),
		zap.Bool("dry_run", r.DryRun),
		zap.Int("new", r.Result.New),
		zap.Int("updated", r.Result.Updated),
		zap.Int("unchanged", r.Result.Unchanged),
		zap.Int("failed", r.Result.Failed),
		zap.Int64("duration_ms", r.DurationMS),
	}
	if r.Archived != "" {
		fields = append(fields, zap.String("archived", r.Archived))
	}
	if r.Error != "" {
		fields = append(fields, zap.String("error", r.Error))
	}
	l.Info("Import report", fields...)
}

// confirmImport prompts the user for confirmation or uses --yes flag.
func confirmImport() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply these changes: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
