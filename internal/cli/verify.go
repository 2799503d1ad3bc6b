package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/crypto"
	"github.com/utcd/utcd/internal/loader"
)

// verifyCmd checks descriptor signatures
var verifyCmd = &cobra.Command{
	Use:   "verify <descriptor.utcd.yaml>",
	Short: "Verify descriptor signatures",
	Long: `Verifies every signature embedded in the descriptor's security profile
against its canonical form.

Example:
  utcd verify tool.utcd.yaml`,
	Args:         cobra.ExactArgs(1),
	RunE:         runVerify,
	SilenceUsage: true,
}

// GetVerifyCmd export
func GetVerifyCmd() *cobra.Command {
	return verifyCmd
}

func runVerify(cmd *cobra.Command, args []string) error {
	d, err := loader.Load(args[0])
	if err != nil {
		return err
	}

	if !d.HasSignatures() {
		fmt.Println("Descriptor carries no signatures.")
		return nil
	}

	ok, err := crypto.VerifyFile(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("signature verification failed for %s", args[0])
	}

	fmt.Printf("All %d signature(s) valid.\n", len(d.Security.Signatures))
	return nil
}
