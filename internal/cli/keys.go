package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utcd/utcd/internal/crypto"
)

// keygenCmd creates a signing keypair
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an Ed25519 keypair for descriptor signing",
	Long: `Writes a PEM-encoded Ed25519 keypair.

Example:
  utcd keygen --private publisher.key --public publisher.pub`,
	RunE:         runKeygen,
	SilenceUsage: true,
}

var (
	keygenPrivateFlag string
	keygenPublicFlag  string
)

func init() {
	keygenCmd.Flags().StringVar(&keygenPrivateFlag, "private", "utcd.key", "Private key output path")
	keygenCmd.Flags().StringVar(&keygenPublicFlag, "public", "utcd.pub", "Public key output path")
}

// GetKeygenCmd export
func GetKeygenCmd() *cobra.Command {
	return keygenCmd
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if err := crypto.GenerateKeys(keygenPrivateFlag, keygenPublicFlag); err != nil {
		return err
	}
	fmt.Printf("Keypair written: %s, %s\n", keygenPrivateFlag, keygenPublicFlag)
	fmt.Println("Keep the private key secret.")
	return nil
}
