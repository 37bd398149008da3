package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/LeJamon/goEscrowd/internal/config"
	"github.com/LeJamon/goEscrowd/internal/logging"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_handlers"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	debug      bool
	verbose    bool
	quiet      bool

	// loaded by initConfig
	cfg       *config.Config
	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "escrowd",
	Short: "escrowd - two-party conditional swap escrow node",
	Long: `escrowd runs an account ledger with a token program and an escrow
program. A seller locks a token account under an address derived from the
offer terms; a buyer who pays the demanded amount receives it, or the seller
cancels and takes it back.`,
	Version:           rpc_handlers.Version,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (default: ./"+config.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}

// initConfig loads the configuration file and environment, then sets up
// logging. Command-line flags override the configured log level.
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if configFile != "" {
		cfg, err = config.LoadConfig(configFile)
	} else {
		cfg, err = config.LoadDefaultConfig()
	}
	if err != nil {
		return err
	}

	switch {
	case debug:
		cfg.Logging.Level = "trace"
	case verbose:
		cfg.Logging.Level = "debug"
	case quiet:
		cfg.Logging.Level = "warn"
	}

	logCloser, err = logging.Setup(cfg.Logging)
	return err
}
