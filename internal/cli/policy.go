package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/policy"
)

// policyCmd groups policy inspection subcommands
var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect evaluation policies",
}

var policyExplainCmd = &cobra.Command{
	Use:   "explain [preset-or-file]",
	Short: "Show the rules a policy enforces",
	Long: `Lists every rule of a policy with its severity and description, so the
impact of a policy choice is visible before any tool is evaluated.

Examples:
  utcd policy explain strict
  utcd policy explain ./company-policy.yaml --json`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runPolicyExplain,
	SilenceUsage: true,
}

var policyListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List built-in policy presets",
	Args:         cobra.NoArgs,
	RunE:         runPolicyList,
	SilenceUsage: true,
}

var policyExplainJSONFlag bool

func init() {
	policyExplainCmd.Flags().BoolVar(&policyExplainJSONFlag, "json", false, "Output as JSON")
	policyCmd.AddCommand(policyExplainCmd)
	policyCmd.AddCommand(policyListCmd)
}

// GetPolicyCmd export
func GetPolicyCmd() *cobra.Command {
	return policyCmd
}

// ruleView is the JSON shape for policy explain output
type ruleView struct {
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type policyView struct {
	Name  string     `json:"name"`
	Rules []ruleView `json:"rules"`
}

func runPolicyExplain(cmd *cobra.Command, args []string) error {
	name := defaultPolicyName
	if len(args) == 1 {
		name = args[0]
	}

	p, err := loadActivePolicy(name)
	if err != nil {
		return err
	}

	if policyExplainJSONFlag {
		view := policyView{Name: p.Name}
		for _, r := range p.Rules {
			view.Rules = append(view.Rules, ruleView{
				Name:        r.Name,
				Severity:    string(r.Severity),
				Description: r.Description,
			})
		}
		out, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Policy: %s (%d rules)\n", p.Name, len(p.Rules))
	for _, r := range p.Rules {
		fmt.Printf("  [%s] %-30s %s\n", r.Severity, r.Name, r.Description)
	}
	return nil
}

func runPolicyList(cmd *cobra.Command, args []string) error {
	for _, name := range policy.ListPresetNames() {
		p := policy.GetPreset(name)
		var errorCount, warningCount int
		for _, r := range p.Rules {
			if r.Severity == "error" {
				errorCount++
			} else {
				warningCount++
			}
		}
		fmt.Printf("%-12s %d error rule(s), %d warning rule(s)\n", name, errorCount, warningCount)
	}
	fmt.Println(strings.Repeat("-", 44))
	fmt.Printf("Default: %s\n", defaultPolicyName)
	return nil
}
