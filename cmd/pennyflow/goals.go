package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/common"
	"github.com/dhruvkb/pennyflow/internal/goal"
)

func goalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Manage savings goals",
		Long:  `List, add, update, and delete savings goals and track progress toward each target.`,
	}

	cmd.AddCommand(listGoalsCmd())
	cmd.AddCommand(addGoalCmd())
	cmd.AddCommand(updateGoalCmd())
	cmd.AddCommand(deleteGoalCmd())

	return cmd
}

func listGoalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all savings goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			goals, err := app.goals.List(ctx)
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Println(cli.InfoStyle.Render("No goals yet. Use 'pennyflow goals add' to create one."))
				return nil
			}

			currency, err := app.settings.Currency(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintln(w, "ID\tName\tSaved\tTarget\tProgress\tTarget Date")
			for _, g := range goals {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f%%\t%s\n",
					g.ID, g.Name,
					currency.FormatAmount(g.CurrentAmount),
					currency.FormatAmount(g.TargetAmount),
					g.ProgressPercent(),
					g.TargetDate.Format("Jan 2, 2006"))
			}
			return nil
		},
	}
}

func addGoalCmd() *cobra.Command {
	var (
		name        string
		description string
		target      float64
		current     float64
		targetDate  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a savings goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			parsed, err := time.ParseInLocation("2006-01-02", targetDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid target date %q: %w", targetDate, err)
			}

			g, err := app.goals.Create(ctx, goal.Input{
				TargetDate:    parsed,
				Name:          name,
				Description:   description,
				TargetAmount:  target,
				CurrentAmount: current,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created goal %q (id %d), %.0f%% funded",
				g.Name, g.ID, g.ProgressPercent())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "goal name")
	cmd.Flags().StringVarP(&description, "description", "m", "", "optional description")
	cmd.Flags().Float64VarP(&target, "target", "t", 0, "target amount")
	cmd.Flags().Float64VarP(&current, "current", "c", 0, "amount already saved")
	cmd.Flags().StringVarP(&targetDate, "date", "d", "", "target date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func updateGoalCmd() *cobra.Command {
	var (
		name        string
		description string
		target      float64
		current     float64
		targetDate  string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a savings goal",
		Long:  `Update a savings goal. Flags left unset keep their current values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid goal id %q: %w", args[0], err)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			existing, err := app.goals.Get(ctx, id)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("goal %d not found", id), err)
				}
				return err
			}

			in := goal.Input{
				TargetDate:    existing.TargetDate,
				Name:          existing.Name,
				Description:   existing.Description,
				TargetAmount:  existing.TargetAmount,
				CurrentAmount: existing.CurrentAmount,
			}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("description") {
				in.Description = description
			}
			if cmd.Flags().Changed("target") {
				in.TargetAmount = target
			}
			if cmd.Flags().Changed("current") {
				in.CurrentAmount = current
			}
			if cmd.Flags().Changed("date") {
				parsed, err := time.ParseInLocation("2006-01-02", targetDate, time.Local)
				if err != nil {
					return fmt.Errorf("invalid target date %q: %w", targetDate, err)
				}
				in.TargetDate = parsed
			}

			g, err := app.goals.Update(ctx, id, in)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated goal %q, %.0f%% funded",
				g.Name, g.ProgressPercent())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "goal name")
	cmd.Flags().StringVarP(&description, "description", "m", "", "description")
	cmd.Flags().Float64VarP(&target, "target", "t", 0, "target amount")
	cmd.Flags().Float64VarP(&current, "current", "c", 0, "amount already saved")
	cmd.Flags().StringVarP(&targetDate, "date", "d", "", "target date (YYYY-MM-DD)")

	return cmd
}

func deleteGoalCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a savings goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid goal id %q: %w", args[0], err)
			}

			if !force && !confirm(fmt.Sprintf("Delete goal %d?", id)) {
				fmt.Println(cli.FormatInfo("Cancelled."))
				return nil
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.goals.Delete(ctx, id); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted goal %d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	var answer string
	_, _ = fmt.Scanln(&answer)
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}
