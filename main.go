// Command ytcapt fetches auto-generated captions for a YouTube video and
// prints them refined into readable sentences, caching the extracted
// transcript on the way. Logs go to stderr; stdout carries the transcript.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ytcapt/cache"
	"ytcapt/config"
	"ytcapt/errors"
	"ytcapt/logger"
	"ytcapt/service"
	"ytcapt/ytdlp"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		lang   string
		force  bool
		asJSON bool
	)

	root := &cobra.Command{
		Use:   "ytcapt <url>",
		Short: "Download, cache, and refine YouTube auto-captions",
		Long: `ytcapt resolves a YouTube URL to its video ID, downloads the
auto-generated captions via yt-dlp, and prints the transcript refined into
readable sentences. Fetched transcripts are cached for a week, so repeat
runs are instant and cost YouTube nothing.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], lang, force, asJSON)
		},
	}

	root.Flags().StringVarP(&lang, "lang", "l", "", `caption language code, e.g. "ko" or "en" (default from DEFAULT_LANG)`)
	root.Flags().BoolVarP(&force, "force", "f", false, "refetch even when a cached transcript exists")
	root.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON instead of plain text")

	root.AddCommand(newCacheCommand())
	return root
}

func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the transcript cache",
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete cache entries older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := setup()
			if err != nil {
				return err
			}
			defer closeStore(store)

			removed, err := store.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d expired cache entries\n", removed)
			return nil
		},
	}

	cacheCmd.AddCommand(purge)
	return cacheCmd
}

func run(ctx context.Context, url, lang string, force, asJSON bool) error {
	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer closeStore(store)

	fetcher := ytdlp.NewClient(ytdlp.Config{
		Path:    cfg.YTDLPPath,
		Timeout: cfg.FetchTimeout,
		Rate:    cfg.FetchRate,
		Burst:   cfg.FetchBurst,
	})
	svc := service.New(store, fetcher, service.Config{DefaultLang: cfg.DefaultLang})

	result, err := svc.Transcript(ctx, url, lang, force)
	if err != nil {
		if errors.IsUserFacing(err) {
			return err
		}
		logrus.WithError(err).Error("Transcript request failed")
		return fmt.Errorf("an unexpected error occurred: %v", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		return enc.Encode(result)
	}

	fmt.Println(result.Text)
	return nil
}

// setup loads configuration, configures logging, and opens the cache store
// selected by CACHE_BACKEND.
func setup() (*config.Config, cache.Store, error) {
	cfg := config.LoadConfig()
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		return nil, nil, err
	}

	store, err := cache.New(cfg.CacheBackend, cfg.CacheDir, cfg.CacheDBPath, cfg.CacheTTL)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

func closeStore(store cache.Store) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close cache store")
		}
	}
}
