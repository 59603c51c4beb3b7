package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"blueblog/internal/config"
	"blueblog/internal/posts"
	"blueblog/internal/store"
	"blueblog/internal/web/appcore"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose   bool
	flagAddr  string
	flagOut   string
	flagStore string

	logger *zap.Logger

	openStore = store.Open
)

var rootCmd = &cobra.Command{
	Use:   "blueblog",
	Short: "A British Blue cat's blog",
	Long: `blueblog renders posts kept in a hosted document store.

Serve the site live, pre-render it into a directory, or publish the
pre-rendered files to an S3-compatible bucket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}

		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "document store: firestore, graphql or postgres (overrides BLOG_STORE)")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides BLOG_LISTEN_ADDR)")
	buildCmd.Flags().StringVar(&flagOut, "out", "", "output directory (overrides BLOG_OUT_DIR)")
	publishCmd.Flags().StringVar(&flagOut, "out", "", "output directory (overrides BLOG_OUT_DIR)")

	rootCmd.AddCommand(serveCmd, buildCmd, publishCmd, idsCmd, showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	cfg := config.Load()
	if flagAddr != "" {
		cfg.ListenAddr = flagAddr
	}
	if flagOut != "" {
		cfg.OutDir = flagOut
	}
	if flagStore != "" {
		cfg.Store = strings.ToLower(flagStore)
	}
	return cfg
}

// blog bundles the post service with the store connection behind it.
type blog struct {
	cfg     config.Config
	service *posts.Service
	appCtx  *appcore.Context
	close   func() error
}

func openBlog(ctx context.Context, cfg config.Config) (*blog, error) {
	postStore, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	service := posts.NewService(postStore, cfg.Locale, cfg.RootURL)
	return &blog{
		cfg:     cfg,
		service: service,
		appCtx: appcore.NewContext(service, appcore.Site{
			Title:   cfg.SiteTitle,
			RootURL: cfg.RootURL,
		}),
		close: closeStore,
	}, nil
}

func (b *blog) Close() {
	if b.close == nil {
		return
	}
	if err := b.close(); err != nil {
		logger.Warn("close document store", zap.Error(err))
	}
}
