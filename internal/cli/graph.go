package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgscan/pkg/errors"
	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/render"
)

type graphOpts struct {
	output   string
	dot      bool
	dev      bool
	detailed bool
	noCache  bool
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <manifest|dir>",
		Short: "Draw declared dependencies as a Graphviz graph",
		Long: `Draw the dependencies declared by a manifest, or by every package found
under a directory, as SVG (default) or DOT. Packages found in the same scan
are linked when one depends on another.`,
		Example: `  pkgscan graph composer.json -o deps.svg
  pkgscan graph . --dev --detailed -o monorepo.svg
  pkgscan graph composer.json --dot | dot -Tpng > deps.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: deps.svg, or stdout with --dot)")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "emit Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&opts.dev, "dev", false, "include development dependencies")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label versions and constraints")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, target string, opts graphOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	scanner := newScanner(ctx, cfg, opts.noCache)
	defer scanner.Cache.Close()

	info, err := os.Stat(target)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "graph target")
	}

	var pkgs []*packages.Package
	if info.IsDir() {
		report, err := scanner.Scan(ctx, target)
		if err != nil {
			return err
		}
		pkgs = report.Packages
	} else {
		pkg, err := scanner.Recognize(ctx, target)
		if err != nil {
			return err
		}
		if pkg != nil {
			pkgs = append(pkgs, pkg)
		}
	}
	if len(pkgs) == 0 {
		return errors.New(errors.ErrCodeNotFound, "no packages found in %s", target)
	}

	dot := render.ToDOT(pkgs, render.Options{IncludeDev: opts.dev, Detailed: opts.detailed})
	if opts.dot {
		if opts.output == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), dot)
			return err
		}
		return writeOutput(opts.output, []byte(dot))
	}

	prog := newProgress(loggerFromContext(ctx))
	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render graph")
	}
	prog.done(fmt.Sprintf("Rendered %d packages", len(pkgs)))

	out := opts.output
	if out == "" {
		out = "deps.svg"
	}
	return writeOutput(out, svg)
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	printSuccess("Wrote graph")
	printFile(path)
	return nil
}
