package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/config"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/sheets"
)

func exportCmd() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions and categories",
		Long: `Export all transactions and both category lists. The sheets format
writes a three-tab Google Spreadsheet; the csv format writes the
Transactions tab to a local file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			transactions, err := app.engine.Transactions(ctx)
			if err != nil {
				return err
			}
			income, err := app.registry.List(ctx, model.KindIncome)
			if err != nil {
				return err
			}
			expense, err := app.registry.List(ctx, model.KindExpense)
			if err != nil {
				return err
			}

			switch format {
			case "sheets":
				return exportSheets(cmd, transactions, income, expense)
			case "csv":
				return exportCSV(output, transactions)
			default:
				return fmt.Errorf("invalid export format %q (want sheets or csv)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "sheets", "export format (sheets, csv)")
	cmd.Flags().StringVarP(&output, "output", "o", "pennyflow.csv", "output file for csv format")

	return cmd
}

func exportSheets(cmd *cobra.Command, transactions []model.Transaction, income, expense []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("failed to load sheets config: %w", err)
	}

	service, err := sheets.NewService(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("failed to create sheets service: %w", err)
	}

	spreadsheetID, err := service.Export(ctx, transactions, income, expense)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions", len(transactions))))
	fmt.Println(cli.InfoStyle.Render("https://docs.google.com/spreadsheets/d/" + spreadsheetID))
	return nil
}

func exportCSV(path string, transactions []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, row := range sheets.TransactionRows(transactions) {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprint(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", len(transactions), path)))
	return nil
}
