package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pb33f/harview/config"
	"github.com/pb33f/harview/motor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	verbose bool
	cfgFile string
	logFile string
	Logger  *slog.Logger

	// populated in PersistentPreRunE
	v         *viper.Viper
	cfg       *config.Config
	logCloser io.Closer

	rootCmd = &cobra.Command{
		Use:   "harview [har-file]",
		Short: "Inspect HAR files: waterfall timings, filters and search",
		Long: `harview loads a HAR (HTTP Archive) capture and lays out every request
on a shared timeline, classifies requests by status, and narrows them down with
built-in and custom filters and free text search. Results are available on the
command line or through a small HTTP API.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  harview recording.har
  harview entries recording.har --filter 4xx
  harview waterfall recording.har --search api -o json
  harview serve recording.har --port 8080`,
		SilenceUsage:       true,
		PersistentPreRunE:  initialize,
		PersistentPostRunE: shutdown,
		RunE:               runRoot,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./harview.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to a rotating file")
	addOutputFlag(rootCmd)

	// will be reconfigured in PersistentPreRunE from config and flags
	setupLogger(config.LoggingConfig{Level: "info"})
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return printSummary(cmd, args[0])
}

// initialize loads configuration and sets up logging for every command
func initialize(cmd *cobra.Command, args []string) error {
	v = config.New()
	bindFlags(cmd, v)

	loaded, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	setupLogger(cfg.Logging)
	if used := v.ConfigFileUsed(); used != "" {
		Logger.Debug("using config file", "path", used)
	}
	return nil
}

func shutdown(cmd *cobra.Command, args []string) error {
	if logCloser != nil {
		err := logCloser.Close()
		logCloser = nil
		return err
	}
	return nil
}

// bindFlags lets command line flags override config values when they are set
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	bindings := map[string]string{
		"log-file": "logging.file",
		"port":     "server.port",
		"host":     "server.host",
	}
	for flag, key := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// setupLogger configures the global slog logger from config and the verbose flag
func setupLogger(logging config.LoggingConfig) {
	opts := &slog.HandlerOptions{
		Level: logging.SlogLevel(),
	}
	if verbose {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	var out io.Writer = os.Stderr
	if logCloser != nil {
		logCloser.Close()
		logCloser = nil
	}
	if logging.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   logging.File,
			MaxSize:    logging.MaxSizeMB,
			MaxBackups: logging.MaxBackups,
			MaxAge:     logging.MaxAgeDays,
		}
		logCloser = rotating
		out = io.MultiWriter(os.Stderr, rotating)
	}

	Logger = slog.New(slog.NewTextHandler(out, opts))
	slog.SetDefault(Logger)
	motor.SetLogger(Logger)

	if verbose {
		Logger.Debug("verbose logging enabled",
			"level", slog.LevelDebug.String(),
			"pid", os.Getpid())
	}
}

// GetLogger returns the global logger instance
func GetLogger() *slog.Logger {
	if Logger == nil {
		setupLogger(config.LoggingConfig{Level: "info"})
	}
	return Logger
}

// ValidateHARFile checks if the provided HAR file exists and is accessible
// check if the file exists, and it is not a directory.
func ValidateHARFile(harFile string) error {
	if harFile == "" {
		return fmt.Errorf("HAR file path is required")
	}

	info, err := os.Stat(harFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("HAR file does not exist: %s", harFile)
		}
		return fmt.Errorf("error accessing HAR file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("provided path is a directory, not a file: %s", harFile)
	}

	return nil
}

// LoadCapture validates and loads a HAR file with standard logging
func LoadCapture(harFile string, logger *slog.Logger) (*motor.Capture, error) {
	if err := ValidateHARFile(harFile); err != nil {
		return nil, err
	}

	logger.Debug("loading HAR file...", "path", harFile)
	capture, err := motor.LoadCaptureFile(harFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load HAR file: %w", err)
	}

	logger.Info("HAR file loaded",
		"entries", len(capture.Records),
		"file_size_kb", capture.Size/1024,
		"unique_urls", capture.UniqueURLs,
		"build_time", capture.BuildTime,
		"time_range", fmt.Sprintf("%s to %s",
			capture.TimeRange.Start.Format("2006-01-02 15:04:05"),
			capture.TimeRange.End.Format("2006-01-02 15:04:05")))

	if capture.Creator != nil {
		logger.Debug("HAR creator", "name", capture.Creator.Name, "version", capture.Creator.Version)
	}
	if capture.Browser != nil {
		logger.Debug("HAR browser", "name", capture.Browser.Name, "version", capture.Browser.Version)
	}

	return capture, nil
}

// newFilterStore seeds a store with the configured custom filters
func newFilterStore() *motor.MemoryFilterStore {
	if cfg == nil {
		return motor.NewMemoryFilterStore(motor.DefaultCustomFilters()...)
	}
	return motor.NewMemoryFilterStore(cfg.SeedFilters()...)
}
