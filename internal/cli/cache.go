package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tileboard/pkg/cache"
	"github.com/matzehuels/tileboard/pkg/config"
	"github.com/matzehuels/tileboard/pkg/imagesource"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the image list cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached image lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			switch strings.ToLower(cfg.Cache.Backend) {
			case config.BackendFile:
				fc, err := cache.NewFileCache(cfg.Cache.Dir)
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				count, err := fc.Clear()
				if err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", fc.Dir())

			case config.BackendRedis:
				ctx := cmd.Context()
				rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
					Addr:     cfg.Cache.Redis.Addr,
					Password: cfg.Cache.Redis.Password,
					DB:       cfg.Cache.Redis.DB,
				})
				if err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
				defer rc.Close()

				client, err := imagesource.NewClient(cfg.Images.Endpoint,
					imagesource.WithCache(rc, cfg.Images.CacheTTL.Duration),
					imagesource.WithField(cfg.Images.Field),
				)
				if err != nil {
					return err
				}
				if err := client.Invalidate(ctx); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess("Cleared cached image list")
				printDetail("Redis: %s", cfg.Cache.Redis.Addr)

			default:
				printInfo("Cache is disabled")
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch strings.ToLower(cfg.Cache.Backend) {
			case config.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://"+cfg.Cache.Redis.Addr)
			case config.BackendFile:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.Cache.Dir)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "none")
			}
			return nil
		},
	}
}
