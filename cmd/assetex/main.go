package main

import (
	"fmt"
	"os"

	"code.assetex.io/assetex/internal/logging"

	"github.com/spf13/cobra"
)

var rootPath string

func main() {
	log := logging.NewLoggerFromEnv(os.Getenv("ASSETEX_ENV"))
	defer log.AtExit()

	root := &cobra.Command{
		Use:           "assetex",
		Short:         "Deterministic asset exchange over a transactional ledger store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&rootPath, "root-path", "r", defaultRootDir(), "Path of the root directory holding configuration and ledger data")

	root.AddCommand(
		initCmd(log),
		invokeCmd(log),
		runCmd(log),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultRootDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".assetex"
	}
	return home + "/.assetex"
}
