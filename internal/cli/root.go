package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/observability"
	"github.com/utcd/utcd/internal/observability/logging"
	otelobs "github.com/utcd/utcd/internal/observability/otel"
	"github.com/utcd/utcd/internal/observability/receipt"
	"github.com/utcd/utcd/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "utcd",
	Short: "Policy engine for tool contract descriptors",
	Long: `utcd: trust decisions for the Agentic Web.
Evaluates UTCD tool descriptors against safety and compliance policies.`,
	Version:           version.BuildVersion(),
	PersistentPreRunE: setupContext,
	PersistentPostRun: teardownContext,
}

var (
	logFormatFlag  string
	logLevelFlag   string
	logOutputFlag  string
	otelFlag       bool
	otelEndpoint   string
	otelProtocol   string
	otelInsecure   bool
	otelSampleFlag float64
	receiptFlag    string
)

// closers held between pre-run and post-run
var (
	activeLogger  logging.Logger
	activeOtel    *otelobs.Handle
	activeReceipt receipt.Writer
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logFormatFlag, "log-format", "pretty", "Log format: pretty or jsonl")
	pf.StringVar(&logLevelFlag, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&logOutputFlag, "log-output", "stderr", "Log output: stderr or a file path")
	pf.BoolVar(&otelFlag, "otel", false, "Enable OpenTelemetry tracing")
	pf.StringVar(&otelEndpoint, "otel-endpoint", "", "OTLP endpoint (default from OTEL_EXPORTER_OTLP_ENDPOINT)")
	pf.StringVar(&otelProtocol, "otel-protocol", otelobs.ProtocolHTTP, "OTLP protocol: otlphttp or otlpgrpc")
	pf.BoolVar(&otelInsecure, "otel-insecure", false, "Allow insecure OTLP connections")
	pf.Float64Var(&otelSampleFlag, "otel-sample-ratio", 1.0, "Trace sampling ratio (0..1)")
	pf.StringVar(&receiptFlag, "receipt", "", "Append an audit receipt (JSONL) to this file")

	rootCmd.AddCommand(GetValidateCmd())
	rootCmd.AddCommand(GetEvaluateCmd())
	rootCmd.AddCommand(GetFindCmd())
	rootCmd.AddCommand(GetSelectCmd())
	rootCmd.AddCommand(GetCompareCmd())
	rootCmd.AddCommand(GetExplainCmd())
	rootCmd.AddCommand(GetDiffCmd())
	rootCmd.AddCommand(GetPolicyCmd())
	rootCmd.AddCommand(GetKeygenCmd())
	rootCmd.AddCommand(GetSignCmd())
	rootCmd.AddCommand(GetVerifyCmd())
}

// setupContext wires op ID, logger, tracing, and receipts into the
// command context before any subcommand runs.
func setupContext(cmd *cobra.Command, args []string) error {
	ctx := observability.WithOpID(cmd.Context())

	logger, err := logging.NewLogger(logging.Config{
		Format: logFormatFlag,
		Level:  logLevelFlag,
		Output: logOutputFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	activeLogger = logger
	ctx = logging.WithLogger(ctx, logger)

	if otelFlag {
		handle, otelErr := otelobs.Init(ctx, otelobs.Config{
			Enabled:     true,
			Endpoint:    otelEndpoint,
			Protocol:    otelProtocol,
			Insecure:    otelInsecure,
			ServiceName: "utcd",
			SampleRatio: otelSampleFlag,
		})
		if otelErr != nil {
			return fmt.Errorf("failed to initialize tracing: %w", otelErr)
		}
		activeOtel = handle
		ctx = otelobs.WithHandle(ctx, handle)
	}

	if receiptFlag != "" {
		writer, recErr := receipt.NewWriter(receiptFlag)
		if recErr != nil {
			return recErr
		}
		activeReceipt = writer
		ctx = receipt.WithWriter(ctx, writer)
	}

	cmd.SetContext(ctx)
	return nil
}

// teardownContext flushes whatever setupContext opened.
func teardownContext(cmd *cobra.Command, args []string) {
	if activeReceipt != nil {
		_ = activeReceipt.Close()
	}
	if activeOtel != nil {
		_ = activeOtel.Shutdown(context.Background())
	}
	if activeLogger != nil {
		_ = activeLogger.Close()
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
