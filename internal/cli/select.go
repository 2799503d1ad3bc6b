package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/agent"
	"github.com/utcd/utcd/internal/observability"
	otelobs "github.com/utcd/utcd/internal/observability/otel"
	"github.com/utcd/utcd/internal/observability/receipt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// selectCmd picks the single best tool that passes the policy
var selectCmd = &cobra.Command{
	Use:   "select --dir <directory>",
	Short: "Select the best tool that passes the policy",
	Long: `Evaluates every descriptor under the directory and prints the
highest-scoring tool that is not rejected. Rejected tools are never
selected, whatever their score.

Examples:
  utcd select --dir ./tools --policy strict
  utcd select --dir ./tools --domain web-search`,
	RunE:         runSelect,
	SilenceUsage: true,
}

var (
	selectDirFlag    string
	selectDomainFlag string
	selectPolicyFlag string
)

func init() {
	selectCmd.Flags().StringVar(&selectDirFlag, "dir", ".", "Directory of descriptor files")
	selectCmd.Flags().StringVar(&selectDomainFlag, "domain", "", "Restrict candidates to this capability domain")
	selectCmd.Flags().StringVar(&selectPolicyFlag, "policy", defaultPolicyName, "Policy preset or path to policy YAML file")
}

// GetSelectCmd export
func GetSelectCmd() *cobra.Command {
	return selectCmd
}

func runSelect(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "utcd select", os.Args[1:])
	var receiptOpts []receipt.Option

	defer func() {
		_ = sess.Finish(err, receiptOpts...)
	}()

	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "utcd.select",
			trace.WithAttributes(
				attribute.String("utcd.op_id", observability.OpID(ctx)),
				attribute.String("utcd.policy", selectPolicyFlag),
				attribute.String("utcd.domain", selectDomainFlag),
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

	activePolicy, err := loadActivePolicy(selectPolicyFlag)
	if err != nil {
		return err
	}
	receiptOpts = append(receiptOpts, receipt.WithPolicy(activePolicy.Name, len(activePolicy.Rules)))

	a := agent.New(activePolicy)
	if _, err = a.LoadToolsFromDirectory(ctx, selectDirFlag); err != nil {
		return err
	}

	best := a.SelectBest(selectDomainFlag)
	if best == nil {
		// Expected outcome, not a failure: there is simply nothing to pick
		fmt.Println("No tool satisfies the policy.")
		return nil
	}
	receiptOpts = append(receiptOpts, receipt.WithDecisions(best))

	fmt.Println(best.Summary())
	return nil
}
