// Package config turns command-line flags and LFSRSCAN_* environment
// variables into a validated AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/explorer"
	"github.com/agbru/lfsrscan/internal/lfsr"
	"github.com/agbru/lfsrscan/internal/logging"
)

// EnvPrefix is the prefix of every environment variable read by lfsrscan.
const EnvPrefix = "LFSRSCAN_"

// Default configuration values.
const (
	DefaultWorkers       = 1
	DefaultTimeout       = 5 * time.Minute
	DefaultPort          = "8080"
	DefaultLogLevel      = "warn"
	DefaultMaxServerBits = 16
	DefaultCacheSize     = 128
)

// AppConfig aggregates the settings of one lfsrscan invocation.
type AppConfig struct {
	// Polynomial is the positional argument: the feedback polynomial as a
	// string of '0'/'1' characters. Empty in server mode.
	Polynomial string

	// JSONOutput emits the report as a models.Report document.
	JSONOutput bool
	// Details appends an exploration summary after the report.
	Details bool
	// Quiet suppresses the progress display.
	Quiet bool
	// OutputFile, when set, also receives the report.
	OutputFile string
	// NoColor disables colour on stderr decorations.
	NoColor bool
	// LogLevel is the zerolog level for diagnostics written to stderr.
	LogLevel string

	// Workers is the number of goroutines walking seeds. 1 is sequential.
	Workers int
	// Timeout bounds the whole exploration.
	Timeout time.Duration

	// ServerMode starts the HTTP API instead of running one exploration.
	ServerMode bool
	// Port is the HTTP listen port.
	Port string
	// MaxServerBits is the widest polynomial the HTTP API explores.
	MaxServerBits int
	// CacheSize is the number of reports the HTTP API keeps in memory.
	CacheSize int

	// ShowVersion prints version information and exits.
	ShowVersion bool
}

// Validate checks the semantic consistency of the configuration.
//
// Returns:
//   - error: A ConfigError describing the first problem found, nil otherwise.
func (c AppConfig) Validate() error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Workers < 1 {
		return apperrors.NewConfigError("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ServerMode {
		if p, err := strconv.Atoi(c.Port); err != nil || p < 0 || p > 65535 {
			return apperrors.NewConfigError("invalid port %q", c.Port)
		}
		if c.MaxServerBits < 1 || c.MaxServerBits > explorer.MaxBits {
			return apperrors.NewConfigError("max-bits must be between 1 and %d, got %d", explorer.MaxBits, c.MaxServerBits)
		}
		if c.CacheSize < 1 {
			return apperrors.NewConfigError("cache-size must be at least 1, got %d", c.CacheSize)
		}
		return nil
	}
	if _, err := lfsr.ParseBits(c.Polynomial); err != nil {
		return err
	}
	if len(c.Polynomial) > explorer.MaxBits {
		return apperrors.NewConfigError("polynomial is %d bits wide, the maximum is %d", len(c.Polynomial), explorer.MaxBits)
	}
	return nil
}

// ParseConfig parses the command-line arguments into an AppConfig.
//
// Flags must precede the polynomial. Exactly one positional argument is
// required unless -server or -version is given; any other count yields a
// UsageError. Parse failures (including flag.ErrHelp) are returned as is,
// and a failed validation is reported on errorWriter and returned as a
// ConfigError.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments without the program name.
//   - errorWriter: Destination for parse errors and usage information.
//
// Returns:
//   - AppConfig: The populated configuration.
//   - error: An error if parsing or validation fails.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	config := AppConfig{}
	fs.BoolVar(&config.JSONOutput, "json", false, "Output the report in JSON format.")
	fs.BoolVar(&config.Details, "d", false, "Append an exploration summary to the report.")
	fs.BoolVar(&config.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode: no progress display.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Alias for -q.")
	fs.StringVar(&config.OutputFile, "o", "", "Also write the report to this file.")
	fs.StringVar(&config.OutputFile, "output", "", "Alias for -o.")
	fs.IntVar(&config.Workers, "workers", DefaultWorkers, "Number of goroutines walking seeds (output is identical for any value).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the exploration.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Diagnostic log level on stderr: debug, info, warn, error, disabled.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start the HTTP API instead of exploring one polynomial.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxServerBits, "max-bits", DefaultMaxServerBits, "Widest polynomial accepted by the HTTP API.")
	fs.IntVar(&config.CacheSize, "cache-size", DefaultCacheSize, "Number of reports cached by the HTTP API.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	if config.ShowVersion {
		return config, nil
	}
	if config.ServerMode {
		if fs.NArg() > 0 {
			return AppConfig{}, apperrors.NewUsageError("server mode takes no polynomial argument, got %d", fs.NArg())
		}
	} else if fs.NArg() != 1 {
		return AppConfig{}, apperrors.NewUsageError("expected exactly one polynomial argument, got %d", fs.NArg())
	}
	config.Polynomial = fs.Arg(0)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	return config, nil
}
