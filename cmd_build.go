package main

import (
	"fmt"

	"blueblog/internal/publish"
	"blueblog/internal/site"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Pre-render every page into the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := buildSite(cmd)
		return err
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Build the site and upload it to the configured bucket",
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func buildSite(cmd *cobra.Command) (site.Result, error) {
	cfg := loadConfig()

	b, err := openBlog(cmd.Context(), cfg)
	if err != nil {
		return site.Result{}, err
	}
	defer b.Close()

	result, err := site.Build(cmd.Context(), b.appCtx, site.Options{
		OutDir:         cfg.OutDir,
		StaticDir:      cfg.StaticDir,
		Concurrency:    cfg.BuildConcurrency,
		StoreRateLimit: cfg.StoreRateLimit,
		Logger:         logger,
	})
	if err != nil {
		return site.Result{}, err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "built %d pages into %s (%d skipped)\n",
		len(result.Pages), cfg.OutDir, len(result.Skipped))
	return result, nil
}

func runPublish(cmd *cobra.Command, _ []string) error {
	if _, err := buildSite(cmd); err != nil {
		return err
	}

	cfg := loadConfig()
	bucket, err := publish.NewMinIO(cmd.Context(), cfg.Publish)
	if err != nil {
		return err
	}

	keys, err := publish.New(bucket, cfg.Publish.Prefix, logger).Publish(cmd.Context(), cfg.OutDir)
	if err != nil {
		return err
	}

	logger.Info("publish finished", zap.String("bucket", cfg.Publish.Bucket), zap.Int("objects", len(keys)))
	fmt.Fprintf(cmd.OutOrStdout(), "published %d objects to %s\n", len(keys), cfg.Publish.Bucket)
	return nil
}
