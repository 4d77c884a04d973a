package main

import (
	"fmt"

	"csvdash/internal/tui/styles"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the folders and files that will be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.configureLogging(false)
			e, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			cat := e.ctrl.Catalog()
			fmt.Fprintf(out, "%s (%d files)\n", e.src.Describe(), cat.Len())
			for _, folder := range cat.Folders() {
				fmt.Fprintln(out, styles.Theme.Title.UnsetMarginBottom().Render(folder))
				files := cat.Files(folder)
				if len(files) == 0 {
					fmt.Fprintln(out, styles.Theme.Help.Render("  (empty)"))
				}
				for _, file := range files {
					fmt.Fprintf(out, "  %s\n", file)
				}
			}
			return nil
		},
	}
}
