package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/model"
)

func summaryCmd() *cobra.Command {
	var (
		year       int
		showSeries bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense, and balance totals",
		Long: `Show aggregate totals across all transactions, and optionally a
month-by-month breakdown of income or expense activity.`,
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
			currency, err := app.settings.Currency(ctx)
			if err != nil {
				return err
			}

			summary := app.engine.Summarize(transactions)
			content := fmt.Sprintf("Transactions: %d\nIncome:  %s\nExpense: %s\nBalance: %s",
				summary.Count,
				cli.IncomeStyle.Render(currency.FormatAmount(summary.TotalIncome)),
				cli.ExpenseStyle.Render(currency.FormatAmount(summary.TotalExpense)),
				currency.FormatAmount(summary.Balance))
			fmt.Println(cli.RenderBox(cli.CoinIcon+" Summary", content))

			if recent := app.engine.Recent(transactions, 5); len(recent) > 0 {
				fmt.Println(cli.SubtleStyle.Render("Recent activity"))
				for _, txn := range recent {
					fmt.Println("  " + renderTransactionLine(txn.ID, txn.Category, txn.Description, txn.Amount, currency))
				}
			}

			if !showSeries {
				return nil
			}

			var income, expense [12]float64
			if cmd.Flags().Changed("year") {
				income = app.engine.MonthlySeriesForYear(transactions, model.TypeIncome, year)
				expense = app.engine.MonthlySeriesForYear(transactions, model.TypeExpense, year)
				fmt.Println(cli.FormatTitle(fmt.Sprintf("Monthly breakdown for %d", year)))
			} else {
				income = app.engine.MonthlySeries(transactions, model.TypeIncome)
				expense = app.engine.MonthlySeries(transactions, model.TypeExpense)
				fmt.Println(cli.FormatTitle("Monthly breakdown (all years)"))
			}

			peak := 0.0
			for i := range income {
				peak = max(peak, income[i], expense[i])
			}
			for i := range income {
				month := time.Month(i + 1).String()[:3]
				fmt.Printf("%s  %s %s\n", month,
					cli.IncomeStyle.Render(bar(income[i], peak)),
					cli.ExpenseStyle.Render(bar(expense[i], peak)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "restrict the breakdown to one year")
	cmd.Flags().BoolVarP(&showSeries, "monthly", "M", false, "include the month-by-month breakdown")

	return cmd
}

// bar renders a value as a fixed-width proportional bar.
func bar(value, peak float64) string {
	const width = 20
	if peak <= 0 {
		return strings.Repeat("·", width)
	}
	filled := int(value / peak * width)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}
