// StockSentinel: financial news sentiment analysis for US equities.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/seenimoa/stocksentinel/api"
	"github.com/seenimoa/stocksentinel/internal/config"
	"github.com/seenimoa/stocksentinel/internal/logging"
	"github.com/seenimoa/stocksentinel/internal/pipeline"
	"github.com/seenimoa/stocksentinel/internal/report"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger, set by the root command.
var (
	cfg       *config.Config
	logger    *log.Logger
	logCloser io.Closer
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stocksentinel",
	Short: "StockSentinel — financial news sentiment analyzer",
	Long: `StockSentinel collects recent financial news for a stock ticker,
classifies each article's sentiment with FinBERT, and turns the aggregate
into a 0-100 score with a buy/hold/sell recommendation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logger, logCloser, err = logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			File:   cfg.Logging.File,
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("StockSentinel %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Analyze Command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze news sentiment for a stock",
	Long:  "Collect recent news for a ticker, score its sentiment and save the report.",
	Example: `  # Analyze single stock
  stocksentinel analyze --ticker AAPL --days 7

  # Save results to specific file
  stocksentinel analyze --ticker NVDA --output results/nvda_analysis.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")
		days, _ := cmd.Flags().GetInt("days")
		maxArticles, _ := cmd.Flags().GetInt("max-articles")
		output, _ := cmd.Flags().GetString("output")

		if !cmd.Flags().Changed("days") && cfg.Analysis.DefaultDays > 0 {
			days = cfg.Analysis.DefaultDays
		}
		if !cmd.Flags().Changed("max-articles") && cfg.Analysis.DefaultMaxArticles > 0 {
			maxArticles = cfg.Analysis.DefaultMaxArticles
		}

		svc, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}

		r, err := svc.Analyze(cmd.Context(), pipeline.Request{Ticker: ticker, Days: days, MaxArticles: maxArticles})
		if err != nil {
			logger.Error().Err(err).Str("ticker", ticker).Msg("analysis failed")
			return err
		}

		if err := report.WriteSummary(cmd.OutOrStdout(), *r); err != nil {
			return err
		}

		path := output
		if path == "" {
			path = defaultOutputPath(cfg.Analysis.OutputDir, timeNow())
		}
		if err := writeReport(path, *r); err != nil {
			return err
		}
		logger.Info().Str("path", path).Msg("results saved")
		return nil
	},
}

func init() {
	analyzeCmd.Flags().String("ticker", "", "stock ticker symbol (e.g., AAPL)")
	analyzeCmd.Flags().Int("days", pipeline.DefaultDays, "number of days to look back for news")
	analyzeCmd.Flags().Int("max-articles", pipeline.DefaultMaxArticles, "maximum number of articles")
	analyzeCmd.Flags().String("output", "", "output file path: .json, .yaml/.yml or .html (default: <output_dir>/analysis_<timestamp>.json)")
	_ = analyzeCmd.MarkFlagRequired("ticker")
}

// --- Info Command ---

var infoCmd = &cobra.Command{
	Use:   "info [ticker]",
	Short: "Show basic stock information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}
		info, err := svc.StockInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.API.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}

		svc, err := pipeline.New(cfg, logger)
		if err != nil {
			return err
		}

		addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
		fmt.Fprintf(cmd.OutOrStdout(), "Starting StockSentinel API server on %s\n", addr)
		return api.NewServer(cfg, svc, logger, version).ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from config)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		printStatus(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func printStatus(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintln(w, "  StockSentinel — System Status")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "  Version:       %s (%s)\n", version, commit)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  Configuration:")
	fmt.Fprintf(w, "    Classifier:    %s (model: %s)\n", cfg.Classifier.Provider, cfg.Classifier.Model)
	fmt.Fprintf(w, "    Lookback:      %d days, max %d articles\n", cfg.Analysis.DefaultDays, cfg.Analysis.DefaultMaxArticles)
	fmt.Fprintf(w, "    Output Dir:    %s\n", cfg.Analysis.OutputDir)
	fmt.Fprintf(w, "    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "  API Keys:")
	for _, k := range config.CheckAPIKeys(cfg) {
		status := "not set"
		if k.IsSet {
			status = fmt.Sprintf("set (%s: %s)", k.Source, k.Masked)
		}
		fmt.Fprintf(w, "    %-25s %s\n", k.Name+":", status)
	}
	fmt.Fprintln(w, "═══════════════════════════════════════")
}
