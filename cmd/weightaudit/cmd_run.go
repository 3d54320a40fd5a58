package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weight-reconciliation/internal/config"
	"weight-reconciliation/internal/gateway"
	"weight-reconciliation/internal/logging"
	"weight-reconciliation/internal/usecase"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	configPath     string
	courtesyDelay  time.Duration
	logLevel       string
	logFile        string
	debug          bool
	accountChannel string
	baseURL        string
	pageSize       int
	jsonOutput     bool
	reportCSV      string
}

func newRunCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one audit pass over every order of the account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, opts)
		},
	}

	defaults := config.Default()
	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	f.DurationVar(&opts.courtesyDelay, "courtesy-delay", defaults.CourtesyDelay(), "Pause before each order")
	f.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", defaults.LogFile, "Log file path; empty disables file logging")
	f.BoolVar(&opts.debug, "debug", false, "Trace the weight of every inventory item")
	f.StringVar(&opts.accountChannel, "account-channel", "", "Channel id or name for multi-channel accounts")
	f.StringVar(&opts.baseURL, "base-url", defaults.BaseURL, "ShipBob API base URL")
	f.IntVar(&opts.pageSize, "page-size", defaults.PageSize, "Orders requested per page")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the audit report as JSON on stdout")
	f.StringVar(&opts.reportCSV, "report-csv", "", "Write discrepancies to this CSV file")
	return cmd
}

// resolveConfig loads the config file and applies the flags that were set
// explicitly on the command line.
func (o *runOptions) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("courtesy-delay") {
		if o.courtesyDelay > 0 && o.courtesyDelay < time.Millisecond {
			return config.Config{}, fmt.Errorf("courtesy delay %s is below the 1ms resolution; use 0 to disable it", o.courtesyDelay)
		}
		cfg.CourtesyDelayMs = int(o.courtesyDelay / time.Millisecond)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("debug") {
		cfg.DebugMode = o.debug
	}
	if flags.Changed("account-channel") {
		cfg.AccountChannel = o.accountChannel
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("page-size") {
		cfg.PageSize = o.pageSize
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runAudit(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, cleanup, err := logging.New(logging.Config{
		Level:     cfg.LogLevel,
		File:      cfg.LogFile,
		DebugMode: cfg.DebugMode,
		Console:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Dependency Injection (Wiring the application) ---

	// 1. Create the fulfillment client; this resolves the account channel once.
	client, err := gateway.NewShipBobClient(ctx, cfg.APIToken,
		gateway.WithBaseURL(cfg.BaseURL),
		gateway.WithTimeout(cfg.RequestTimeout()),
		gateway.WithPageSize(cfg.PageSize),
		gateway.WithAccountChannel(cfg.AccountChannel),
		gateway.WithLogger(logger.Named("shipbob")),
	)
	if err != nil {
		logger.Error("could not connect to fulfillment provider", zap.Error(err))
		return err
	}

	// 2. Create the usecase and inject the client.
	audit := usecase.NewAuditUseCase(client,
		usecase.WithLogger(logger.Named("audit")),
		usecase.WithCourtesyDelay(cfg.CourtesyDelay()),
		usecase.WithDebug(cfg.DebugMode),
	)

	// --- Execute the Usecase ---
	report, err := audit.RunAudit(ctx)
	if err != nil {
		logger.Error("audit failed", zap.Error(err))
		return fmt.Errorf("audit failed: %w", err)
	}

	// --- Present the Output ---
	if opts.reportCSV != "" {
		if err := gateway.NewCSVReportWriter().WriteDiscrepancies(ctx, opts.reportCSV, report.Orders); err != nil {
			return err
		}
		logger.Info("discrepancy report written", zap.String("path", opts.reportCSV))
	}

	if opts.jsonOutput {
		output, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to generate JSON report: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
	}
	return nil
}
