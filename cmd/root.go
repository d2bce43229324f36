package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/idkit/internal/catalog"
	"github.com/zjrosen/idkit/internal/config"
	"github.com/zjrosen/idkit/internal/diag"
	"github.com/zjrosen/idkit/internal/log"
	"github.com/zjrosen/idkit/internal/tracing"
	"github.com/zjrosen/idkit/prefixid"
)

const defaultConfigPath = ".idkit/config.yaml"

var (
	version       = "dev"
	cfgFile       string
	debugFlag     bool
	traceExporter string
	cfg           config.Config

	// Built by setup before any command body runs.
	kinds     *catalog.Catalog
	provider  *tracing.Provider
	throttle  *diag.Throttle
	logCloser func()
)

var rootCmd = &cobra.Command{
	Use:   "idkit",
	Short: "Mint, parse and inspect prefix-tagged identifiers",
	Long: `idkit works with typed identifiers such as usr_V1StGXR8_Z5jdHi6B-myT.

Each kind has a short prefix (1-4 characters) and optional aliases that are
accepted when parsing but never generated. Kinds are declared in the config
file; run "idkit kinds" to see them.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)
	cobra.OnFinalize(teardown)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .idkit/config.yaml or ~/.config/idkit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also enabled by IDKIT_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&traceExporter, "trace", "",
		"enable tracing with the given exporter: none, file, stdout, otlp")
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("generator.alphabet", defaults.Generator.Alphabet)
	viper.SetDefault("generator.length", defaults.Generator.Length)
	viper.SetDefault("ledger.path", defaults.Ledger.Path)
	viper.SetDefault("diagnostics.enabled", defaults.Diagnostics.Enabled)
	viper.SetDefault("diagnostics.throttle", defaults.Diagnostics.Throttle)
	viper.SetDefault("log.path", defaults.Log.Path)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("IDKIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config lookup order:
	// 1. --config
	// 2. .idkit/config.yaml (current directory)
	// 3. ~/.config/idkit/config.yaml (user config)
	// A missing explicit or project file is created with defaults.
	switch {
	case cfgFile != "":
		ensureConfig(cfgFile)
		viper.SetConfigFile(cfgFile)
	case fileExists(defaultConfigPath):
		viper.SetConfigFile(defaultConfigPath)
	default:
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "idkit"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, continue with defaults (no config file)
		}
	}

	cfg = config.Config{}
	_ = viper.Unmarshal(&cfg)
	if !viper.IsSet("kinds") {
		cfg.Kinds = config.DefaultKinds()
	}
}

func ensureConfig(path string) {
	if fileExists(path) {
		return
	}
	_ = config.WriteDefaultConfig(path)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// configPath is where `kinds add` persists changes.
func configPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return defaultConfigPath
}

// setup turns the loaded config into the process-wide state commands use.
func setup(cmd *cobra.Command, _ []string) error {
	if os.Getenv("IDKIT_DEBUG") != "" || debugFlag {
		logPath := os.Getenv("IDKIT_LOG")
		if logPath == "" {
			logPath = cfg.Log.Path
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCloser = cleanup
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		log.Info(log.CatCLI, "idkit starting", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	}

	if traceExporter != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = traceExporter
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gen, err := cfg.NewGenerator()
	if err != nil {
		return err
	}
	prefixid.SetDefaultGenerator(gen)

	kinds, err = catalog.FromConfig(cfg.Kinds)
	if err != nil {
		return fmt.Errorf("invalid kinds: %w", err)
	}

	provider, err = tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}

	throttle = nil
	if cfg.Diagnostics.Enabled {
		throttle = diag.NewThrottle(diag.LogSink(log.LevelWarn), cfg.Diagnostics.Throttle)
	}
	return nil
}

func teardown() {
	if throttle != nil {
		throttle.Flush()
	}
	if provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush spans", err)
		}
		cancel()
		provider = nil
	}
	if logCloser != nil {
		logCloser()
		logCloser = nil
	}
}

// commandFunc is a command body running inside its span.
type commandFunc func(ctx context.Context, cmd *cobra.Command, args []string) error

// traced wraps fn in a span and routes parse failures raised while it runs
// to both the diagnostics throttle and that span.
func traced(name string, fn commandFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		run := tracing.Traced(provider.Tracer(), name, func(ctx context.Context, args []string) error {
			observers := []prefixid.Observer{tracing.FailureObserver(trace.SpanFromContext(ctx))}
			if throttle != nil {
				observers = append(observers, throttle.Observer())
			}
			prev := prefixid.SetObserver(diag.Tee(observers...))
			defer prefixid.SetObserver(prev)

			return fn(ctx, cmd, args)
		})
		return run(cmd.Context(), args)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
