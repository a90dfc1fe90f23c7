package main

import (
	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/tui"
)

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse transactions and goals interactively",
		Long:  `Open an interactive terminal browser over the transaction timeline and savings goals.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			return tui.Run(ctx, tui.Deps{
				Engine:   app.engine,
				Goals:    app.goals,
				Settings: app.settings,
				Bus:      app.bus,
			})
		},
	}
}
