package cli

import (
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"steeldex/internal/application/sync"
	"steeldex/internal/config"
	"steeldex/internal/infrastructure/lookup"
	"steeldex/internal/infrastructure/sources"
)

type syncOptions struct {
	reportDir   string
	sourceFiles []string
	noLookup    bool
}

func newSyncCommand(opts *RootOptions) *cobra.Command {
	syncOpts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize the catalog from all configured sources",
		Long: "Fetches records from every configured source (or the files given via\n" +
			"--source), resolves each against the catalog, merges or inserts, and\n" +
			"writes the updates/inserts/unresolved reports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.close()
			return runSync(cmd, app, syncOpts)
		},
	}

	cmd.Flags().StringVar(&syncOpts.reportDir, "reports", "", "report directory (default from config)")
	cmd.Flags().StringSliceVar(&syncOpts.sourceFiles, "source", nil, "csv file(s) to sync instead of the configured sources")
	cmd.Flags().BoolVar(&syncOpts.noLookup, "no-lookup", false, "skip the fallback lookup for unknown grades")
	return cmd
}

func runSync(cmd *cobra.Command, app *appContext, syncOpts *syncOptions) error {
	sourceConfigs := app.cfg.Sync.Sources
	if len(syncOpts.sourceFiles) > 0 {
		sourceConfigs = nil
		for _, path := range syncOpts.sourceFiles {
			sourceConfigs = append(sourceConfigs, config.SourceConfig{Tag: path, Path: path})
		}
	}
	adapters := make([]sources.Adapter, 0, len(sourceConfigs))
	for _, sc := range sourceConfigs {
		adapters = append(adapters, sources.NewCSVAdapter(sc, app.logger))
	}

	var lk lookup.Client = lookup.Disabled()
	if !syncOpts.noLookup {
		lk = lookup.NewCachedClient(
			lookup.NewHTTPClient(app.cfg.Lookup, app.logger),
			lookup.NewRedisClient(app.cfg.Redis),
			app.cfg.Redis, app.logger, app.metrics)
	}

	reportDir := syncOpts.reportDir
	if reportDir == "" {
		reportDir = app.cfg.Sync.ReportDir
	}

	pipeline := sync.NewPipeline(app.repo, lk, app.logger, app.metrics)
	summary, err := pipeline.Run(cmd.Context(), adapters, reportDir)
	if err != nil {
		printError("sync failed: %v", err)
		return err
	}

	printSummary(summary)
	printSuccess("reports written to %s", reportDir)
	return nil
}

func printSummary(s *sync.Summary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Outcome", "Count"})

	kinds := make([]string, 0, len(s.Outcomes))
	for k := range s.Outcomes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		table.Append([]string{k, strconv.Itoa(s.Outcomes[k])})
	}
	table.Append([]string{"updates", strconv.Itoa(s.Updates)})
	table.Append([]string{"inserts", strconv.Itoa(s.Inserts)})
	table.Append([]string{"unresolved", strconv.Itoa(s.Unresolved)})
	table.SetFooter([]string{"processed", strconv.Itoa(s.Processed)})
	table.Render()
}
