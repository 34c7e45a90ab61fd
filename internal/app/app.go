package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agbru/lfsrscan/internal/cli"
	"github.com/agbru/lfsrscan/internal/config"
	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/explorer"
	"github.com/agbru/lfsrscan/internal/logging"
	"github.com/agbru/lfsrscan/internal/orchestration"
	"github.com/agbru/lfsrscan/internal/server"
	"github.com/agbru/lfsrscan/internal/ui"
	"github.com/agbru/lfsrscan/pkg/models"
)

// Application represents the lfsrscan application instance.
// It encapsulates the configuration and runs either a single exploration
// or the HTTP server.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// ProgramName is argv[0], used in the usage line.
	ProgramName string
	// ErrWriter is the writer for diagnostics, progress and errors (typically os.Stderr).
	ErrWriter io.Writer
	// Logger receives diagnostics at Config.LogLevel.
	Logger zerolog.Logger
}

// New creates a new Application instance by parsing command-line arguments.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: The parse, usage or configuration error; see HandleStartupError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "lfsrscan"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	// Validate has already accepted the level.
	level, _ := logging.ParseLevel(cfg.LogLevel)
	return &Application{
		Config:      cfg,
		ProgramName: programName,
		ErrWriter:   errWriter,
		Logger:      logging.NewZerolog(errWriter, level, true),
	}, nil
}

// HandleStartupError maps an error returned by New to an exit code.
//
// A help request exits successfully. A wrong argument count prints the
// one-line usage on out. Configuration errors and flag errors have already
// been reported on the error writer by the parser.
func HandleStartupError(err error, programName string, out io.Writer) int {
	switch {
	case err == nil:
		return apperrors.ExitSuccess
	case IsHelpError(err):
		return apperrors.ExitSuccess
	case apperrors.IsUsageError(err):
		cli.PrintUsage(out, programName)
		return apperrors.ExitErrorGeneric
	case errors.Is(err, apperrors.ErrInvalidConfiguration):
		return apperrors.ExitErrorConfig
	default:
		return apperrors.ExitErrorGeneric
	}
}

// IsHelpError reports whether err is the result of -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// Run executes the application based on the configured mode.
//
// Parameters:
//   - ctx: The context for managing cancellation.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	f, _ := out.(*os.File)
	ui.InitTheme(a.Config.NoColor, f)

	if a.Config.ServerMode {
		return a.runServer()
	}
	return a.runExplore(ctx, out)
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv, err := server.NewServer(a.Config,
		server.WithLogger(logging.NewZerologAdapter(a.Logger.With().Str("component", "server").Logger())))
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runExplore explores the configured polynomial and prints the report.
func (a *Application) runExplore(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	var progressOut io.Writer
	if !a.Config.Quiet {
		progressOut = a.ErrWriter
	}

	a.Logger.Debug().
		Str("polynomial", a.Config.Polynomial).
		Int("workers", a.Config.Workers).
		Dur("timeout", a.Config.Timeout).
		Msg("starting exploration")

	res := orchestration.ExecuteExploration(ctx, a.Config, a.Logger, progressOut)
	if res.Err != nil {
		return apperrors.HandleExplorationError(res.Err, res.Duration, a.ErrWriter, cli.CLIColorProvider{})
	}

	report := explorer.NewReport(res.Polynomial, res.Cycles, 0)
	if a.Config.JSONOutput {
		report = explorer.NewReport(res.Polynomial, res.Cycles, res.Duration)
	}
	return a.printReport(report, res, out)
}

func (a *Application) printReport(report models.Report, res orchestration.ExplorationResult, out io.Writer) int {
	var err error
	if a.Config.JSONOutput {
		err = cli.DisplayJSONReport(out, report)
	} else {
		err = cli.DisplayReport(out, report)
	}
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing report: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	if a.Config.Details && !a.Config.JSONOutput {
		cli.DisplayDetails(out, report, res.Duration, a.Config.Workers)
	}

	if a.Config.OutputFile != "" {
		if err := cli.WriteReportToFile(a.Config.OutputFile, report, a.Config.JSONOutput); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving report: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		a.Logger.Info().Str("path", a.Config.OutputFile).Msg("report saved")
	}
	return apperrors.ExitSuccess
}
