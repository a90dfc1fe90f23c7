package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dhruvkb/pennyflow/internal/cli"
	"github.com/dhruvkb/pennyflow/internal/settings"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change preferences",
		Long:  `View and change the dark mode, display currency, and notification preferences.`,
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(darkModeCmd())
	cmd.AddCommand(currencyCmd())
	cmd.AddCommand(notificationsCmd())

	return cmd
}

func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			darkMode, err := app.settings.DarkMode(ctx)
			if err != nil {
				return err
			}
			currency, err := app.settings.Currency(ctx)
			if err != nil {
				return err
			}
			notifications, err := app.settings.EmailNotifications(ctx)
			if err != nil {
				return err
			}

			content := fmt.Sprintf("Dark mode:           %t\nCurrency:            %s (%s)\nEmail notifications: %t",
				darkMode, currency, currency.Symbol(), notifications)
			fmt.Println(cli.RenderBox("Settings", content))
			return nil
		},
	}
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid value %q (want on or off)", value)
	}
	return enabled, nil
}

func darkModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dark-mode <on|off>",
		Short: "Toggle the dark theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.settings.SetDarkMode(ctx, enabled); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Dark mode %s", args[0])))
			return nil
		},
	}
}

func currencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currency <code>",
		Short: "Set the display currency",
		Long:  `Set the display currency. Supported codes: INR, USD, EUR, GBP, JPY.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			currency := settings.Currency(args[0])
			if err := app.settings.SetCurrency(ctx, currency); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Currency set to %s (%s)", currency, currency.Symbol())))
			return nil
		},
	}
}

func notificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notifications <on|off>",
		Short: "Toggle email notifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.settings.SetEmailNotifications(ctx, enabled); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Email notifications %s", args[0])))
			return nil
		},
	}
}
