package main

import (
	"fmt"

	"csvdash/internal/errors"
	"csvdash/internal/tui/components"
	"csvdash/internal/tui/styles"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newPreviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [folder]",
		Short: "Print the previews of active files",
		Long:  `Load the catalog and print the preview rows of every active file, for one folder or all of them.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.configureLogging(false)
			ctx := cmd.Context()

			e, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer e.Close()

			folders := e.ctrl.Folders()
			if len(args) == 1 {
				if !e.ctrl.Catalog().HasFolder(args[0]) {
					return errors.NewCatalogError("unknown folder", args[0], "", errors.UnknownFolder)
				}
				folders = args
			}

			if err := e.ctrl.Load(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, folder := range folders {
				e.ctrl.SelectFolder(folder)
				fmt.Fprintln(out, styles.Theme.Title.Render(folder))

				previews := e.ctrl.ActivePreviews()
				if len(previews) == 0 {
					fmt.Fprintln(out, styles.Theme.Help.Render("no active files"))
					continue
				}
				for _, p := range previews {
					full, _ := e.ctrl.Data(p.Folder, p.File)
					fmt.Fprintf(out, "%s  %s rows\n", styles.Theme.Header.Render(p.File), humanize.Comma(int64(full.Len())))

					rows := make([][]string, p.Table.Len())
					for i := range rows {
						rows[i] = p.Table.Row(i)
					}
					var columns []string
					if p.Table != nil {
						columns = p.Table.Columns
					}
					fmt.Fprintln(out, components.RenderPreview(columns, rows, 0))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
