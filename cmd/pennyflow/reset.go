package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/bus"
	"github.com/dhruvkb/pennyflow/internal/cli"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all transactions and goals",
		Long:  `Delete every transaction and goal. Category lists and preferences are kept.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if !force && !confirm("Delete ALL transactions and goals? This cannot be undone.") {
				fmt.Println(cli.FormatInfo("Cancelled."))
				return nil
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.engine.RemoveAll(ctx); err != nil {
				return err
			}
			if err := app.goals.RemoveAll(ctx); err != nil {
				return err
			}
			app.bus.Publish(bus.Event{Topic: bus.TopicFullReset})

			fmt.Println(cli.FormatSuccess("All transactions and goals deleted"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}
