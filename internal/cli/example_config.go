package cli

import (
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/config"
	"github.com/spf13/cobra"
)

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigFile
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.SaveExampleConfig(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exampleConfigCmd)
}
