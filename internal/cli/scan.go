package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgscan/pkg/config"
	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/render"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

type scanOpts struct {
	json        bool
	interactive bool
	store       bool
	noCache     bool
	workers     int
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Find and recognize every package manifest under a directory",
		Long: `Walk a directory tree, recognize every supported manifest and print the
packages found. vendor, node_modules and .git directories are skipped.`,
		Example: `  pkgscan scan .
  pkgscan scan ./src --json > report.json
  pkgscan scan . --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if opts.json && opts.interactive {
				return errors.New(errors.ErrCodeInvalidInput, "--json and --interactive cannot be combined")
			}
			return c.runScan(cmd, dir, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the report as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse the packages interactively")
	cmd.Flags().BoolVar(&opts.store, "store", false, "save the report to the configured MongoDB store")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent recognitions (default from config)")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, dir string, opts scanOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Scan.Workers = opts.workers
	}

	scanner := newScanner(ctx, cfg, opts.noCache)
	defer scanner.Cache.Close()

	var report *scan.Report
	if opts.json {
		report, err = scanner.Scan(ctx, dir)
	} else {
		spinner := newSpinner(ctx, fmt.Sprintf("Scanning %s", dir))
		scanner.Progress = func(done, total int) {
			spinner.Update(fmt.Sprintf("Scanning %s (%d/%d)", dir, done, total))
		}
		spinner.Start()
		report, err = scanner.Scan(ctx, dir)
		if err != nil && !spinner.Cancelled() {
			spinner.StopWithError("Scan of %s failed", dir)
		}
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if opts.store {
		if err := c.saveReport(ctx, cfg, report); err != nil {
			return err
		}
	}

	switch {
	case opts.json:
		return render.WriteJSON(cmd.OutOrStdout(), report)
	case opts.interactive:
		if len(report.Packages) == 0 {
			printWarning("No packages found in %s", report.Root)
			return nil
		}
		_, err := tea.NewProgram(newBrowserModel(report), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	default:
		printReport(report)
		logger.Debug("scan report", "id", report.ID)
		return nil
	}
}

func (c *CLI) saveReport(ctx context.Context, cfg *config.Config, report *scan.Report) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "--store needs store.mongo_uri in %s", configName(c.ConfigPath))
	}
	defer st.Close(ctx)

	prog := newProgress(loggerFromContext(ctx))
	if err := st.SaveReport(ctx, report); err != nil {
		return err
	}
	prog.done("Stored report " + report.ID)
	return nil
}

func configName(path string) string {
	if path == "" {
		return config.FileName
	}
	return path
}
