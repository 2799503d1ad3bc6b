package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/differ"
)

// diffCmd detects drift between two descriptor versions
var diffCmd = &cobra.Command{
	Use:   "diff <old.utcd.yaml> <new.utcd.yaml>",
	Short: "Detect drift between two descriptor versions",
	Long: `Compares two versions of a descriptor and classifies each change by
sensitivity: side effects, retention, and security drift are critical.

Examples:
  utcd diff vendored/tool.utcd.yaml upstream/tool.utcd.yaml
  utcd diff old.utcd.yaml new.utcd.yaml --fail-on moderate`,
	Args:         cobra.ExactArgs(2),
	RunE:         runDiff,
	SilenceUsage: true,
}

var diffFailOnFlag string

func init() {
	diffCmd.Flags().StringVar(&diffFailOnFlag, "fail-on", "critical", "Severity threshold for failure: critical, moderate, or info")
}

// GetDiffCmd export
func GetDiffCmd() *cobra.Command {
	return diffCmd
}

// severityRank for threshold comparison
func severityRank(s differ.Severity) int {
	switch s {
	case differ.SeverityCritical:
		return 2
	case differ.SeverityModerate:
		return 1
	default:
		return 0
	}
}

func runDiff(cmd *cobra.Command, args []string) error {
	threshold := differ.Severity(diffFailOnFlag)
	switch threshold {
	case differ.SeverityCritical, differ.SeverityModerate, differ.SeverityInfo:
	default:
		return fmt.Errorf("invalid --fail-on value: %s (use critical, moderate, or info)", diffFailOnFlag)
	}

	result, err := differ.CompareFiles(args[0], args[1])
	if err != nil {
		return err
	}

	if !result.HasChanges {
		fmt.Println("No drift detected.")
		return nil
	}

	failures := 0
	for _, change := range result.Changes {
		fmt.Printf("[%s] %s\n", change.Severity, change.Message)
		if severityRank(change.Severity) >= severityRank(threshold) {
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("drift detected: %d change(s) at or above %s", failures, threshold)
	}
	return nil
}
