package main

import (
	"fmt"

	"github.com/Veraticus/taxwise/internal/cli"
	"github.com/Veraticus/taxwise/internal/ingest"
	"github.com/Veraticus/taxwise/internal/model"
	"github.com/Veraticus/taxwise/internal/storage"
	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Show how transactions are classified",
		Long: `Classify the transactions in a statement file, or list stored transactions
when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().String("category", "", "Only show this category")
	cmd.Flags().String("section", "", "Only show this deduction section (80C, 80D, 24B, 80E)")
	cmd.Flags().Int("limit", 0, "Maximum number of stored transactions to list")
	cmd.Flags().Bool("json", false, "Output JSON")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	categoryFlag, _ := cmd.Flags().GetString("category")
	sectionFlag, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	filter := storage.TransactionFilter{Limit: limit}
	if categoryFlag != "" {
		filter.Category = model.Category(categoryFlag)
		if !filter.Category.Valid() {
			return fmt.Errorf("unknown category %q", categoryFlag)
		}
	}
	if sectionFlag != "" {
		section, ok := model.ParseSection(sectionFlag)
		if !ok {
			return fmt.Errorf("unknown section %q", sectionFlag)
		}
		filter.Section = section
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var txns []model.ClassifiedTransaction
	if len(args) == 1 {
		classifier, err := newClassifier(cfg)
		if err != nil {
			return err
		}
		batch, err := ingest.ReadFile(args[0])
		if err != nil {
			return err
		}
		txns = filterClassified(classifier.ClassifyAll(batch.Transactions), filter)
	} else {
		store, err := initStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if txns, err = store.ListTransactions(ctx, filter); err != nil {
			return fmt.Errorf("failed to list transactions: %w", err)
		}
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), txns)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTransactions(txns))
	return nil
}

func filterClassified(txns []model.ClassifiedTransaction, filter storage.TransactionFilter) []model.ClassifiedTransaction {
	out := txns[:0:0]
	for _, txn := range txns {
		if filter.Category != "" && txn.Category != filter.Category {
			continue
		}
		if filter.Section != "" && txn.Section != filter.Section {
			continue
		}
		out = append(out, txn)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out
}
