package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgscan/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		root    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recognition API over HTTP",
		Long: `Serve the HTTP API. POST a manifest to /v1/inspect, or a {"path": "..."}
request to /v1/scan to scan a directory below --root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if root != "" {
				cfg.Server.Root = root
			}

			scanner := newScanner(ctx, cfg, noCache)
			defer scanner.Cache.Close()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close(ctx)
				logger.Info("storing reports", "database", cfg.Store.Database)
			}

			return server.New(scanner, st, cfg.Server.Root, logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&root, "root", "", "directory /v1/scan paths are resolved against (default from config, .)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
