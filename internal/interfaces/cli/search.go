package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"steeldex/internal/application/search"
	"steeldex/internal/domain/composition"
)

type searchOptions struct {
	elements  map[string]*string
	tolerance float64
	max       int
}

func newSearchCommand(opts *RootOptions) *cobra.Command {
	searchOpts := &searchOptions{elements: make(map[string]*string, len(composition.Elements))}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find catalog grades with a similar chemical composition",
		Example: "  steeldex search --c 0.28 --cr 1.0 --mo 0.25 --ni 0.50 --tolerance 50\n" +
			"  steeldex search --c 1.45-1.65 --cr 11.0-12.5 --max 10",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.close()
			return runSearch(cmd, app, searchOpts)
		},
	}

	for _, sym := range composition.Elements {
		searchOpts.elements[sym] = cmd.Flags().String(sym, "",
			fmt.Sprintf("%s content, a value or min-max range", strings.ToUpper(sym)))
	}
	cmd.Flags().Float64Var(&searchOpts.tolerance, "tolerance", 50, "match tolerance in percent (0-100)")
	cmd.Flags().IntVar(&searchOpts.max, "max", search.DefaultMaxResults, "maximum number of results")
	return cmd
}

func runSearch(cmd *cobra.Command, app *appContext, searchOpts *searchOptions) error {
	ref := make(map[string]string)
	for sym, val := range searchOpts.elements {
		if *val != "" {
			ref[sym] = *val
		}
	}
	if len(ref) == 0 {
		printError("at least one element flag is required (e.g. --c 0.28)")
		return fmt.Errorf("empty reference composition")
	}

	svc := search.NewService(app.repo, app.logger, app.metrics)
	matches, err := svc.Search(cmd.Context(), ref, searchOpts.tolerance, searchOpts.max)
	if err != nil {
		printError("search failed: %v", err)
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no grades within tolerance")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Score", "Matched Elements"})
	for _, m := range matches {
		table.Append([]string{
			fmt.Sprintf("%d", m.ID),
			m.Name,
			fmt.Sprintf("%.1f", m.Score),
			strings.Join(m.MatchedElements, " "),
		})
	}
	table.Render()
	return nil
}
