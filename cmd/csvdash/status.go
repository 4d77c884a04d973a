package main

import (
	"fmt"

	"csvdash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show or change which files are active",
	}
	cmd.AddCommand(newStatusListCmd(a))
	cmd.AddCommand(newStatusToggleCmd(a))
	return cmd
}

func newStatusListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective status of every catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.configureLogging(false)
			e, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			var rows [][]string
			for _, folder := range e.ctrl.Folders() {
				for _, file := range e.ctrl.Catalog().Files(folder) {
					rows = append(rows, []string{folder, file, activeLabel(e.ctrl.IsActive(folder, file))})
				}
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(styles.Theme.GridBorder).
				Headers("FOLDER", "FILE", "STATUS").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					switch {
					case row == table.HeaderRow:
						return styles.Theme.Header
					case col != 2 || row < 0 || row >= len(rows):
						return styles.Theme.Cell
					case rows[row][2] == "active":
						return styles.Theme.On.Padding(0, 1)
					}
					return styles.Theme.Off.Padding(0, 1)
				})
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}

func newStatusToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <folder> <file>",
		Short: "Flip the status of one file and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.configureLogging(false)
			e, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			active, err := e.ctrl.ToggleFileStatus(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s is now %s\n", args[0], args[1], activeLabel(active))
			return nil
		},
	}
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
