package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/engine"
	"github.com/dhruvkb/pennyflow/internal/model"
)

func addCmd() *cobra.Command {
	var (
		amount      float64
		txnType     string
		category    string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long:  `Record an income or expense transaction. The amount is always entered as a positive number; the type decides its sign.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			in, err := buildInput(amount, txnType, category, date, description)
			if err != nil {
				return err
			}

			txn, err := app.engine.Create(ctx, in)
			if err != nil {
				return err
			}

			currency, err := app.settings.Currency(ctx)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s in %s (id %d)",
				txn.Type(), currency.FormatAmount(txn.Magnitude()), txn.Category, txn.ID)))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "transaction amount (positive number)")
	cmd.Flags().StringVarP(&txnType, "type", "t", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "optional description")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func editCmd() *cobra.Command {
	var (
		amount      float64
		txnType     string
		category    string
		date        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing transaction",
		Long:  `Replace the details of an existing transaction. Flags left unset keep their current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			// Stage the record in the edit slot, then fill unset flags
			// from its current values.
			staged, err := app.engine.BeginEdit(ctx, id)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("transaction %d not found", id), err)
				}
				return err
			}

			in := engine.Input{
				Date:        staged.Date,
				Category:    staged.Category,
				Description: staged.Description,
				Type:        staged.Type(),
				Amount:      staged.Magnitude(),
			}
			if cmd.Flags().Changed("amount") {
				in.Amount = amount
			}
			if cmd.Flags().Changed("type") {
				in.Type = model.TransactionType(txnType)
			}
			if cmd.Flags().Changed("category") {
				in.Category = category
			}
			if cmd.Flags().Changed("description") {
				in.Description = description
			}
			if cmd.Flags().Changed("date") {
				parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				in.Date = parsed
			}

			txn, err := app.engine.Update(ctx, id, in)
			if err != nil {
				return err
			}
			if _, _, err := app.engine.TakeEditing(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %d (%s, %s)",
				txn.ID, txn.Category, txn.Date.Format("Jan 2, 2006"))))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "transaction amount (positive number)")
	cmd.Flags().StringVarP(&txnType, "type", "t", "", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&date, "date", "d", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&description, "description", "m", "", "description")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q: %w", args[0], err)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.engine.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted transaction %d", id)))
			return nil
		},
	}
}

func buildInput(amount float64, txnType, category, date, description string) (engine.Input, error) {
	in := engine.Input{
		Category:    category,
		Description: description,
		Type:        model.TransactionType(txnType),
		Amount:      amount,
		Date:        time.Now(),
	}
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			return engine.Input{}, fmt.Errorf("invalid date %q: %w", date, err)
		}
		in.Date = parsed
	}
	return in, nil
}
