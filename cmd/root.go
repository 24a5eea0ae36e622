package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jtorra/blogscrapper/internal/config"
	"github.com/jtorra/blogscrapper/internal/logging"
	"github.com/jtorra/blogscrapper/internal/pipeline"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "blogscrapper [options] URL",
	Short: "Archive a blog for offline reading",
	Long: `blogscrapper walks a Blogspot or WordPress blog starting from the given URL,
following the "older posts" links page by page. Each article is saved as
cleaned HTML under the cache directory and converted to Markdown under the
output directory, so the whole blog can be read without network access.`,
	Version: "0.1",
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", "INFO", "level of logging to produce (DEBUG INFO WARNING ERROR CRITICAL)")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", "", "file to write the log")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose logging (equivalent to --log-level=DEBUG)")
	rootCmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", "cache", "directory for archived article HTML")
	rootCmd.Flags().StringVarP(&cfg.OutputDir, "output-dir", "o", "md", "directory for markdown renditions")
	rootCmd.Flags().IntVarP(&cfg.DelaySeconds, "delay", "d", 1, "base pause between requests (seconds)")
	rootCmd.Flags().StringVar(&cfg.Selector, "selector", "", "CSS selector for the post body (default: per-platform autodetect)")
	rootCmd.Flags().BoolVar(&cfg.IgnoreRobots, "ignore-robots", false, "skip robots.txt checks")
	rootCmd.Flags().StringVar(&cfg.UserAgent, "user-agent", "blogscrapper/0.1", "custom User-Agent string")
}

func run(cmd *cobra.Command, args []string) error {
	cfg.URL = args[0]

	if cfg.DelaySeconds < 0 {
		return fmt.Errorf("delay must be non-negative")
	}

	level := log.DebugLevel
	if !cfg.Verbose {
		var err error
		if level, err = logging.ParseLevel(cfg.LogLevel); err != nil {
			return err
		}
	}

	closeLog, err := logging.Setup(level, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	// Errors past this point are runtime failures, not usage mistakes.
	cmd.SilenceUsage = true

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return pipeline.Run(ctx, &cfg)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
