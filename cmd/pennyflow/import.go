package main

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/config"
	"github.com/dhruvkb/pennyflow/internal/model"
	"github.com/dhruvkb/pennyflow/internal/ofx"
	"github.com/dhruvkb/pennyflow/internal/sheets"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions",
		Long: `Import transactions from a previously exported spreadsheet or from bank
statement files. Spreadsheet imports replace the whole collection; OFX
imports append to it.`,
	}

	cmd.AddCommand(importSheetsCmd())
	cmd.AddCommand(importCSVCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importSheetsCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Restore from an exported Google Spreadsheet",
		Long: `Read the Transactions and category tabs of the configured spreadsheet
and restore them, replacing all current transactions and category lists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !force && !confirm("Replace all transactions and categories with the spreadsheet contents?") {
				fmt.Println(cli.FormatInfo("Cancelled."))
				return nil
			}

			cfg, err := config.LoadSheetsConfig()
			if err != nil {
				return fmt.Errorf("failed to load sheets config: %w", err)
			}
			service, err := sheets.NewService(ctx, *cfg)
			if err != nil {
				return fmt.Errorf("failed to create sheets service: %w", err)
			}

			values, err := service.ReadTab(ctx, sheets.SheetTransactions)
			if err != nil {
				return fmt.Errorf("failed to read %s tab: %w", sheets.SheetTransactions, err)
			}
			incomeRows, err := service.ReadTab(ctx, sheets.SheetIncomeCategories)
			if err != nil {
				return fmt.Errorf("failed to read %s tab: %w", sheets.SheetIncomeCategories, err)
			}
			expenseRows, err := service.ReadTab(ctx, sheets.SheetExpenseCategories)
			if err != nil {
				return fmt.Errorf("failed to read %s tab: %w", sheets.SheetExpenseCategories, err)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			return restore(cmd, app, values, incomeRows, expenseRows)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

func importCSVCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "csv <file>",
		Short: "Restore transactions from an exported CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if !force && !confirm("Replace all transactions with the file contents?") {
				fmt.Println(cli.FormatInfo("Cancelled."))
				return nil
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			reader := csv.NewReader(f)
			reader.FieldsPerRecord = -1
			records, err := reader.ReadAll()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			bar := progressbar.Default(int64(len(records)), "Reading rows")
			values := make([][]any, 0, len(records))
			for _, record := range records {
				row := make([]any, len(record))
				for i, field := range record {
					row[i] = field
				}
				values = append(values, row)
				_ = bar.Add(1)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			return restore(cmd, app, values, nil, nil)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

// restore replaces the transaction collection and, when category rows are
// present, both category lists.
func restore(cmd *cobra.Command, app *app, values, incomeRows, expenseRows [][]any) error {
	ctx := cmd.Context()

	result, err := sheets.ParseTransactionRows(values)
	if err != nil {
		return err
	}

	// Category lists land first so imported transactions resolve against
	// the restored registry rather than the one being replaced.
	if incomeRows != nil {
		if err := app.registry.Replace(ctx, model.KindIncome, sheets.ParseCategoryRows(incomeRows)); err != nil {
			return err
		}
	}
	if expenseRows != nil {
		if err := app.registry.Replace(ctx, model.KindExpense, sheets.ParseCategoryRows(expenseRows)); err != nil {
			return err
		}
	}

	created, err := app.engine.Import(ctx, result.Transactions, true)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", created)))
	if result.Skipped > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped %d malformed rows", result.Skipped)))
	}
	return nil
}

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ofx <file>...",
		Short: "Import bank statement files (OFX/QFX)",
		Long:  `Parse one or more OFX or QFX statement files and append their transactions to the collection.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			parser := ofx.NewParser()
			bar := progressbar.Default(int64(len(args)), "Parsing statements")

			var parsed []model.Transaction
			var failed int
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipping %s: %v", path, err)))
					failed++
					_ = bar.Add(1)
					continue
				}
				transactions, err := parser.ParseFile(ctx, f)
				_ = f.Close()
				if err != nil {
					fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipping %s: %v", path, err)))
					failed++
					_ = bar.Add(1)
					continue
				}
				parsed = append(parsed, transactions...)
				_ = bar.Add(1)
			}

			created, err := app.engine.Import(ctx, parsed, false)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions from %d files", created, len(args)-failed)))
			if failed > 0 {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%d files could not be parsed", failed)))
			}
			return nil
		},
	}
}
