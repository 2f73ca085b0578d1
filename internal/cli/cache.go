package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgscan/pkg/cache"
	"github.com/matzehuels/pkgscan/pkg/config"
	"github.com/matzehuels/pkgscan/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the recognition result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			rc, err := openCache(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer rc.Close()

			clearer, ok := rc.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "the %s cache cannot be cleared", cfg.Cache.Backend)
			}
			n, err := clearer.Clear(ctx)
			if err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", n)
			printDetail("Location: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached results are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation describes the configured cache: a directory for the file
// backend, a redis:// address for Redis.
func cacheLocation(cfg *config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		return "redis://" + cfg.Cache.RedisAddr
	case config.BackendNone:
		return "(disabled)"
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return "(unavailable: " + err.Error() + ")"
		}
		return dir
	}
}
