package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/taxwise/internal/cli"
	"github.com/Veraticus/taxwise/internal/common"
	"github.com/Veraticus/taxwise/internal/ingest"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/storage"
	"github.com/Veraticus/taxwise/internal/tax"
	"github.com/spf13/cobra"
)

func taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Compare the old and new tax regimes",
	}

	cmd.AddCommand(taxOptimizeCmd())
	cmd.AddCommand(taxHistoryCmd())

	return cmd
}

func taxOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize [files...]",
		Short: "Recommend a tax regime",
		Long: `Aggregate income and deductions and recommend the cheaper regime.

With file arguments the statements are read directly; otherwise the stored
transactions of the financial year are used.

Examples:
  taxwise tax optimize ~/Downloads/hdfc_2024.csv
  taxwise tax optimize --fy 2024-25 --save`,
		RunE: runTaxOptimize,
	}

	cmd.Flags().String("fy", "", "Financial year, e.g. 2024-25 (default: tax.financial_year or the latest transaction)")
	cmd.Flags().Bool("save", false, "Store the calculation in the history")
	cmd.Flags().Bool("json", false, "Output the calculation record as JSON")

	return cmd
}

func runTaxOptimize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fy, _ := cmd.Flags().GetString("fy")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fy == "" {
		fy = cfg.FinancialYear
	}
	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	var (
		txns  []model.ClassifiedTransaction
		store *storage.SQLiteStorage
	)
	if len(args) == 0 || save {
		if store, err = initStorage(ctx, cfg); err != nil {
			return err
		}
		defer store.Close()
	}

	if len(args) > 0 {
		files, err := expandFiles(args)
		if err != nil {
			return err
		}
		for _, file := range files {
			batch, err := ingest.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}
			txns = append(txns, classifier.ClassifyAll(batch.Transactions)...)
		}
		if fy != "" {
			if txns, err = tax.FilterFinancialYear(txns, fy); err != nil {
				return err
			}
		}
	} else {
		filter := storage.TransactionFilter{}
		if fy != "" {
			if filter.From, filter.To, err = tax.FinancialYearRange(fy); err != nil {
				return err
			}
		}
		if txns, err = store.ListTransactions(ctx, filter); err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
	}

	report, err := tax.Optimize(txns, classifier.Rules().Aggregation)
	if err != nil {
		if errors.Is(err, common.ErrZeroIncome) {
			return common.NewUserError("No income was found in the transactions; import statements that include your salary credits.", err)
		}
		return err
	}

	now := time.Now()
	if fy == "" {
		fy = tax.FinancialYearOf(txns, now)
	}
	record := report.Record(fy, now)

	if save {
		if err := store.SaveTaxCalculation(ctx, &record); err != nil {
			return fmt.Errorf("failed to save calculation: %w", err)
		}
		slog.Info(cli.FormatSuccess("Calculation saved"), "id", record.ID, "financial_year", fy)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), record)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTaxReport(report, fy))
	return nil
}

func taxHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved tax calculations",
		RunE:  runTaxHistory,
	}

	cmd.Flags().Int("limit", 10, "Maximum number of calculations to show")
	cmd.Flags().String("fy", "", "Show only the latest calculation for this financial year")
	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

func runTaxHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	fy, _ := cmd.Flags().GetString("fy")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var calcs []model.TaxCalculation
	if fy != "" {
		latest, err := store.GetLatestTaxCalculation(ctx, fy)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("No saved calculation for %s.", fy), err)
			}
			return err
		}
		calcs = []model.TaxCalculation{*latest}
	} else if calcs, err = store.ListTaxCalculations(ctx, limit); err != nil {
		return fmt.Errorf("failed to list calculations: %w", err)
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), calcs)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderHistory(calcs))
	return nil
}
