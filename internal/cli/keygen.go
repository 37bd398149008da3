package cli

import (
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/crypto"
	"github.com/spf13/cobra"
)

var keygenSeed string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a wallet keypair",
	Long: `Generate an ed25519 wallet. With --seed the keypair is derived
deterministically from it, otherwise from random seed material. The secret
is the hex form accepted in the signers list of submit.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var kp *crypto.Keypair
		if keygenSeed != "" {
			kp = crypto.NewKeypair([]byte(keygenSeed))
		} else {
			var err error
			if kp, err = crypto.RandomKeypair(); err != nil {
				return err
			}
		}
		defer kp.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "address: %s\n", kp.Address)
		fmt.Fprintf(out, "secret:  %s\n", kp.Secret())
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenSeed, "seed", "", "derive the keypair from this passphrase")
	rootCmd.AddCommand(keygenCmd)
}
