package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/crypto"
)

// signCmd signs a descriptor file in place
var signCmd = &cobra.Command{
	Use:   "sign <descriptor.utcd.yaml>",
	Short: "Sign a descriptor file",
	Long: `Signs the canonical form of the descriptor (without its security block)
and appends the signature to security.signatures in place.

Example:
  utcd sign tool.utcd.yaml --key publisher.key --publisher did:web:example.com`,
	Args:         cobra.ExactArgs(1),
	RunE:         runSign,
	SilenceUsage: true,
}

var (
	signKeyFlag       string
	signPublisherFlag string
)

func init() {
	signCmd.Flags().StringVar(&signKeyFlag, "key", "", "Private key path (required)")
	signCmd.Flags().StringVar(&signPublisherFlag, "publisher", "", "Publisher identity to record in the security profile")
	_ = signCmd.MarkFlagRequired("key")
}

// GetSignCmd export
func GetSignCmd() *cobra.Command {
	return signCmd
}

func runSign(cmd *cobra.Command, args []string) error {
	sigHex, err := crypto.SignFile(args[0], signKeyFlag, signPublisherFlag)
	if err != nil {
		return err
	}
	fmt.Printf("Signed %s\n", args[0])
	fmt.Printf("Signature: %s\n", sigHex)
	return nil
}
