package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/taxwise/internal/classify"
	"github.com/Veraticus/taxwise/internal/cli"
	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/ingest"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Transactions are saved in one batch after every file has been read.
const importInterruptHint = "Nothing has been saved yet; re-run the import to start over."

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statements (CSV, OFX, QFX)",
		Long: `Import transactions from bank statement exports, classify them and store
them in the local database. Rows already imported are skipped.

Examples:
  # Import a single CSV export
  taxwise import ~/Downloads/hdfc_2024.csv

  # Import every statement in a directory
  taxwise import ~/Downloads/statements/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Classify and show the transactions without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}
	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(out, importInterruptHint)
	ctx, stop := handler.HandleInterrupts(cmd.Context(), "import")
	defer stop()

	slog.Info(cli.FormatTitle("Importing statements"), "files", len(files), "dry_run", dryRun)

	bar := cli.NewProgressBar(out, len(files), "Reading statements")
	all, skipped, err := readStatements(ctx, classifier, files, bar)
	if err != nil {
		return err
	}

	if handler.WasInterrupted() {
		return nil
	}
	if len(all) == 0 {
		return common.NewUserError("No transactions could be read from the given files.", common.ErrNoUsableRows)
	}

	if skipped > 0 {
		slog.Info(cli.FormatWarning(fmt.Sprintf("Skipped %d malformed row(s)", skipped)))
	}

	if dryRun {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
		fmt.Fprintln(out, cli.RenderTransactions(all))
		return nil
	}

	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close database", "error", err)
		}
	}()

	inserted, err := store.SaveTransactions(ctx, all)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d new transaction(s), %d already present", inserted, len(all)-inserted)))
	return nil
}

// readStatements reads and classifies files until ctx is cancelled. Files
// without usable rows are skipped with a warning.
func readStatements(ctx context.Context, classifier *classify.Classifier, files []string, bar *progressbar.ProgressBar) ([]model.ClassifiedTransaction, int, error) {
	var all []model.ClassifiedTransaction
	skipped := 0
	for _, file := range files {
		if ctx.Err() != nil {
			return nil, 0, nil
		}

		batch, err := ingest.ReadFile(file)
		if err != nil {
			if errors.Is(err, common.ErrNoUsableRows) || errors.Is(err, common.ErrInvalidInput) {
				slog.Warn("Skipping file", "file", file, "error", err)
				_ = bar.Add(1)
				continue
			}
			return nil, 0, fmt.Errorf("failed to read %s: %w", file, err)
		}

		skipped += batch.Skipped
		all = append(all, classifier.ClassifyAll(batch.Transactions)...)
		_ = bar.Add(1)
	}
	return all, skipped, nil
}
