package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/agent"
	"github.com/utcd/utcd/internal/loader"
	"github.com/utcd/utcd/internal/models"
	"github.com/utcd/utcd/internal/observability"
	"github.com/utcd/utcd/internal/observability/logging"
	otelobs "github.com/utcd/utcd/internal/observability/otel"
	"github.com/utcd/utcd/internal/observability/receipt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// evaluateCmd scores descriptors against the active policy
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <descriptor.utcd.yaml>...",
	Short: "Evaluate descriptors against a policy",
	Long: `Runs every rule of the selected policy against each descriptor and
prints the scored, classified decision.

Examples:
  utcd evaluate tool.utcd.yaml --policy strict
  utcd evaluate tools/*.utcd.yaml --policy gdpr --format json
  utcd evaluate tool.utcd.yaml --policy ./my-policy.yaml`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runEvaluate,
	SilenceUsage: true,
}

var (
	evaluatePolicyFlag string
	evaluateFormatFlag string
)

func init() {
	evaluateCmd.Flags().StringVar(&evaluatePolicyFlag, "policy", defaultPolicyName, "Policy preset or path to policy YAML file")
	evaluateCmd.Flags().StringVar(&evaluateFormatFlag, "format", "text", "Output format: text or json")
}

// GetEvaluateCmd export
func GetEvaluateCmd() *cobra.Command {
	return evaluateCmd
}

func runEvaluate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "utcd evaluate", os.Args[1:])
	var receiptOpts []receipt.Option

	defer func() {
		_ = sess.Finish(err, receiptOpts...)
	}()

	log := logging.From(ctx)
	start := time.Now()

	// Start OTel span if enabled
	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "utcd.evaluate",
			trace.WithAttributes(
				attribute.String("utcd.op_id", observability.OpID(ctx)),
				attribute.String("utcd.policy", evaluatePolicyFlag),
				attribute.Int("utcd.descriptor_count", len(args)),
			))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed")
			} else {
				span.SetStatus(codes.Ok, "success")
			}
			span.End()
		}()
	}

	if evaluateFormatFlag != "text" && evaluateFormatFlag != "json" {
		return fmt.Errorf("invalid format: %s (use text or json)", evaluateFormatFlag)
	}

	activePolicy, err := loadActivePolicy(evaluatePolicyFlag)
	if err != nil {
		return err
	}
	receiptOpts = append(receiptOpts, receipt.WithPolicy(activePolicy.Name, len(activePolicy.Rules)))

	a := agent.New(activePolicy)
	for _, path := range args {
		d, loadErr := loader.Load(path)
		if loadErr != nil {
			return loadErr
		}
		a.LoadTool(d)
	}

	decisions := a.EvaluateAll()
	receiptOpts = append(receiptOpts, receipt.WithDecisions(decisions...))

	log.Event(ctx, "evaluate.complete", map[string]any{
		"policy":      activePolicy.Name,
		"tools":       len(decisions),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if evaluateFormatFlag == "json" {
		out, jsonErr := json.MarshalIndent(decisions, "", "  ")
		if jsonErr != nil {
			return fmt.Errorf("failed to marshal decisions: %w", jsonErr)
		}
		fmt.Println(string(out))
	} else {
		for i, decision := range decisions {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(decision.Summary())
		}
	}

	for _, decision := range decisions {
		if decision.Classification == models.ClassificationRejected {
			return fmt.Errorf("one or more tools rejected by policy %q", activePolicy.Name)
		}
	}
	return nil
}
