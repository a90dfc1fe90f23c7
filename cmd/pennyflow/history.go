package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/engine"
	"github.com/dhruvkb/pennyflow/internal/settings"
)

func historyCmd() *cobra.Command {
	var (
		typeFilter  string
		category    string
		date        string
		monthWindow string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the transaction timeline",
		Long: `Show transactions grouped by day, newest first. Filters combine: a
transaction is listed only when it matches every active filter. An exact
date filter takes precedence over the month window.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			criteria := engine.Criteria{
				Type:     engine.TypeFilter(typeFilter),
				Category: category,
				Window:   engine.MonthWindow(monthWindow),
			}
			if date != "" {
				parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				criteria.DateExact = &parsed
			}

			transactions, err := app.engine.Transactions(ctx)
			if err != nil {
				return err
			}
			filtered := app.engine.Filter(transactions, criteria)

			currency, err := app.settings.Currency(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Transaction History"))

			if len(filtered) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions match the current filters."))
				return nil
			}

			for _, group := range app.engine.GroupByDay(filtered) {
				fmt.Println(cli.SubtleStyle.Render(group.Label))
				for _, txn := range group.Transactions {
					fmt.Println("  " + renderTransactionLine(txn.ID, txn.Category, txn.Description, txn.Amount, currency))
				}
			}

			summary := app.engine.Summarize(filtered)
			fmt.Println()
			fmt.Printf("%s shown: %d  income: %s  expense: %s  balance: %s\n",
				cli.SubtleStyle.Render("Totals"),
				summary.Count,
				cli.IncomeStyle.Render(currency.FormatAmount(summary.TotalIncome)),
				cli.ExpenseStyle.Render(currency.FormatAmount(summary.TotalExpense)),
				currency.FormatAmount(summary.Balance))
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeFilter, "type", "t", "all", "filter by type (all, income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "all", "filter by category name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "filter by exact date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&monthWindow, "month", "w", "all", "filter by month window (all, current, last, last3)")

	return cmd
}

func renderTransactionLine(id int64, category, description string, amount float64, currency settings.Currency) string {
	label := category
	if description != "" {
		label = fmt.Sprintf("%s (%s)", category, description)
	}
	formatted := currency.FormatAmount(amount)
	if amount > 0 {
		formatted = cli.IncomeStyle.Render("+" + formatted)
	} else {
		formatted = cli.ExpenseStyle.Render(formatted)
	}
	return fmt.Sprintf("%-13d %-40s %s", id, label, formatted)
}
