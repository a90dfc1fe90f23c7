package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long:  `List, add, and remove the category names available for transactions. Income and expense categories are kept as separate lists.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(removeCategoryCmd())
	cmd.AddCommand(resetCategoriesCmd())

	return cmd
}

func parseKind(kind string) (model.CategoryKind, error) {
	switch kind {
	case "income":
		return model.KindIncome, nil
	case "expense":
		return model.KindExpense, nil
	default:
		return "", fmt.Errorf("invalid category kind %q (want income or expense)", kind)
	}
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			income, err := app.registry.List(ctx, model.KindIncome)
			if err != nil {
				return err
			}
			expense, err := app.registry.List(ctx, model.KindExpense)
			if err != nil {
				return err
			}

			fmt.Println(cli.IncomeStyle.Render("Income categories"))
			for _, name := range income {
				fmt.Println("  " + name)
			}
			fmt.Println(cli.ExpenseStyle.Render("Expense categories"))
			for _, name := range expense {
				fmt.Println("  " + name)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			k, err := parseKind(kind)
			if err != nil {
				return err
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.registry.Add(ctx, k, name); err != nil {
				if errors.Is(err, common.ErrDuplicateCategory) {
					return common.NewUserError(fmt.Sprintf("%s category %q already exists", kind, name), err)
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s category %q", kind, name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "category kind (income, expense)")

	return cmd
}

func removeCategoryCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a category",
		Long:  `Remove a category from its list. A category still referenced by a transaction of the matching type cannot be removed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			k, err := parseKind(kind)
			if err != nil {
				return err
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.registry.Remove(ctx, k, name); err != nil {
				switch {
				case errors.Is(err, common.ErrCategoryInUse):
					return common.NewUserError(fmt.Sprintf("%s category %q is still used by existing transactions", kind, name), err)
				case errors.Is(err, common.ErrNotFound):
					return common.NewUserError(fmt.Sprintf("%s category %q does not exist", kind, name), err)
				}
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %s category %q", kind, name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "category kind (income, expense)")

	return cmd
}

func resetCategoriesCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default category lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !force && !confirm("Replace both category lists with the defaults?") {
				fmt.Println(cli.FormatInfo("Cancelled."))
				return nil
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.registry.Reset(ctx); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Restored default categories"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}
