package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"steeldex/internal/domain/composition"
	"steeldex/internal/domain/grade"
	"steeldex/pkg/types/common"
)

func newGradeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Inspect catalog entries",
	}
	cmd.AddCommand(newGradeGetCommand(opts), newGradeListCommand(opts))
	return cmd
}

func newGradeGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one catalog entry as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id must be an integer: %q", args[0])
			}

			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.close()

			g, err := app.repo.FindByID(cmd.Context(), id)
			if err != nil {
				printError("%v", err)
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(g)
		},
	}
}

func newGradeListCommand(opts *RootOptions) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.close()

			grades, total, err := app.repo.ListPage(cmd.Context(),
				common.Pagination{Page: page, PageSize: pageSize})
			if err != nil {
				printError("%v", err)
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name", "Link", "Standard", "Composition"})
			for _, g := range grades {
				table.Append([]string{
					fmt.Sprintf("%d", g.ID),
					g.Name,
					g.Link,
					g.Standard,
					formatComposition(g),
				})
			}
			table.SetFooter([]string{"", "", "", "total", fmt.Sprintf("%d", total)})
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", common.DefaultPageSize, "entries per page")
	return cmd
}

// formatComposition renders the element cells in column order, e.g.
// "c:1.45-1.65 cr:11.0-12.5".
func formatComposition(g *grade.CanonicalGrade) string {
	var parts []string
	for _, sym := range composition.Elements {
		if v, ok := g.Composition[sym]; ok {
			parts = append(parts, sym+":"+v)
		}
	}
	return strings.Join(parts, " ")
}
