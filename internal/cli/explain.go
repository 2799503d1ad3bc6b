package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/agent"
	"github.com/utcd/utcd/internal/loader"
)

// explainCmd renders why a descriptor fails the policy
var explainCmd = &cobra.Command{
	Use:   "explain <descriptor.utcd.yaml>",
	Short: "Explain why a tool would be rejected",
	Long: `Evaluates one descriptor and, if it is rejected, lists the failed
error-severity rules and what the tool must satisfy to pass. Warnings
are omitted; they did not cause the rejection.

Example:
  utcd explain tool.utcd.yaml --policy strict`,
	Args:         cobra.ExactArgs(1),
	RunE:         runExplain,
	SilenceUsage: true,
}

var explainPolicyFlag string

func init() {
	explainCmd.Flags().StringVar(&explainPolicyFlag, "policy", defaultPolicyName, "Policy preset or path to policy YAML file")
}

// GetExplainCmd export
func GetExplainCmd() *cobra.Command {
	return explainCmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	activePolicy, err := loadActivePolicy(explainPolicyFlag)
	if err != nil {
		return err
	}

	d, err := loader.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(agent.New(activePolicy).ExplainRejection(d))
	return nil
}
