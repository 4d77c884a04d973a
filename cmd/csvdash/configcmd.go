package main

import (
	"fmt"
	"os"

	"csvdash/internal/config"
	"csvdash/internal/errors"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration file",
		// these subcommands must work before a config file exists
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(newConfigPathCmd(a))
	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigThemesCmd())
	return cmd
}

func (a *app) configPath() (string, error) {
	if a.cfgFile != "" {
		return a.cfgFile, nil
	}
	return config.DefaultPath()
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.NewConfigError("config file already exists, use --force to overwrite", path, errors.InvalidConfig, nil)
			}

			cfg := config.New()
			if a.root != "" {
				cfg.Data.Root = a.root
			}
			if a.store != "" {
				cfg.Status.Backend = a.store
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.SaveConfig(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config file")
	return cmd
}

func newConfigThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListThemes() {
				p := config.GetTheme(name)
				swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Primary)).Render("■") +
					lipgloss.NewStyle().Foreground(lipgloss.Color(p.Success)).Render("■") +
					lipgloss.NewStyle().Foreground(lipgloss.Color(p.Error)).Render("■")
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", swatch, name)
			}
			return nil
		},
	}
}
