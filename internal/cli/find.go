package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/agent"
	"github.com/utcd/utcd/internal/observability/logging"
)

// findCmd filters and ranks the descriptors in a directory
var findCmd = &cobra.Command{
	Use:   "find --dir <directory>",
	Short: "Find and rank tools matching criteria",
	Long: `Loads every descriptor under the directory, filters by the given
criteria before evaluation, then ranks the survivors by score.

Examples:
  utcd find --dir ./tools --domain web-search
  utcd find --dir ./tools --max-side-effects net:http-outbound --policy strict
  utcd find --dir ./tools --require-profile privacy --require-compliance GDPR`,
	RunE:         runFind,
	SilenceUsage: true,
}

var (
	findDirFlag        string
	findDomainFlag     string
	findSideEffects    []string
	findProfiles       []string
	findCompliance     []string
	findPolicyFlag     string
)

func init() {
	findCmd.Flags().StringVar(&findDirFlag, "dir", ".", "Directory of descriptor files")
	findCmd.Flags().StringVar(&findDomainFlag, "domain", "", "Require this capability domain")
	findCmd.Flags().StringSliceVar(&findSideEffects, "max-side-effects", nil, "Allowed side-effect tags (tools must stay within this set)")
	findCmd.Flags().StringSliceVar(&findProfiles, "require-profile", nil, "Profiles that must be present")
	findCmd.Flags().StringSliceVar(&findCompliance, "require-compliance", nil, "Compliance standards that must be declared")
	findCmd.Flags().StringVar(&findPolicyFlag, "policy", defaultPolicyName, "Policy preset or path to policy YAML file")
}

// GetFindCmd export
func GetFindCmd() *cobra.Command {
	return findCmd
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logging.From(ctx)

	activePolicy, err := loadActivePolicy(findPolicyFlag)
	if err != nil {
		return err
	}

	a := agent.New(activePolicy)
	count, err := a.LoadToolsFromDirectory(ctx, findDirFlag)
	if err != nil {
		return err
	}
	log.Info("find", "descriptors loaded", "dir", findDirFlag, "count", count)

	filters := agent.Filters{
		Domain:            findDomainFlag,
		RequireProfiles:   findProfiles,
		RequireCompliance: findCompliance,
	}
	// Distinguish "flag absent" from "empty allow-set"
	if cmd.Flags().Changed("max-side-effects") {
		filters.MaxSideEffects = findSideEffects
		if filters.MaxSideEffects == nil {
			filters.MaxSideEffects = []string{}
		}
	}

	decisions := a.FindTools(filters)
	if len(decisions) == 0 {
		fmt.Println("No tools match the given criteria.")
		return nil
	}

	for _, decision := range decisions {
		fmt.Printf("%-30s %-10s score %d/100\n",
			decision.ToolName, decision.Classification, decision.Score)
	}
	return nil
}
