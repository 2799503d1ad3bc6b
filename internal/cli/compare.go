package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/agent"
)

// compareCmd renders a score-ranked comparison of named tools
var compareCmd = &cobra.Command{
	Use:   "compare --dir <directory> <tool-name> <tool-name>...",
	Short: "Compare tools by name",
	Long: `Evaluates the named tools and renders them ranked by score with their
side effects, retention, and profiles. Advisory output: the
recommendation ignores classification, unlike select.

Example:
  utcd compare --dir ./tools web-search-basic web-search-pro`,
	Args:         cobra.MinimumNArgs(2),
	RunE:         runCompare,
	SilenceUsage: true,
}

var (
	compareDirFlag    string
	comparePolicyFlag string
)

func init() {
	compareCmd.Flags().StringVar(&compareDirFlag, "dir", ".", "Directory of descriptor files")
	compareCmd.Flags().StringVar(&comparePolicyFlag, "policy", defaultPolicyName, "Policy preset or path to policy YAML file")
}

// GetCompareCmd export
func GetCompareCmd() *cobra.Command {
	return compareCmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	activePolicy, err := loadActivePolicy(comparePolicyFlag)
	if err != nil {
		return err
	}

	a := agent.New(activePolicy)
	if _, err := a.LoadToolsFromDirectory(cmd.Context(), compareDirFlag); err != nil {
		return err
	}

	fmt.Println(a.CompareTools(args...))
	return nil
}
