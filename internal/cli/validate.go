package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/artifact"
	"github.com/utcd/utcd/internal/loader"
	"github.com/utcd/utcd/internal/validator"
)

// validateCmd checks descriptor structure before any policy runs
var validateCmd = &cobra.Command{
	Use:   "validate <descriptor.utcd.yaml>...",
	Short: "Validate descriptor files structurally",
	Long: `Checks required core fields, enum values, and profile shapes of UTCD
descriptor files. Also flags oci connection modes whose image reference
is malformed or not digest-pinned.

Example:
  utcd validate tools/web-search.utcd.yaml`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runValidate,
	SilenceUsage: true,
}

// GetValidateCmd export
func GetValidateCmd() *cobra.Command {
	return validateCmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	failed := 0

	for _, path := range args {
		result := validator.ValidateFile(path)
		fmt.Printf("%s: %s\n", path, result.String())

		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s: %s\n", w.Path, w.Message)
		}

		if result.Valid {
			// Artifact findings only make sense on a parseable descriptor
			if d, err := loader.Load(path); err == nil {
				for _, finding := range artifact.CheckConnection(d) {
					fmt.Printf("  warning: %s\n", finding)
				}
			}
		} else {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d descriptor(s) failed validation", failed, len(args))
	}
	return nil
}
