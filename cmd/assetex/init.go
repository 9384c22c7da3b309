package main

import (
	"code.assetex.io/assetex/internal/config"
	"code.assetex.io/assetex/internal/logging"

	"github.com/spf13/cobra"
)

func initCmd(log *logging.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the minimal configuration required for an assetex node",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefault(rootPath); err != nil {
				return err
			}
			log.Info("configuration generated",
				logging.String("root-path", rootPath),
			)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("assetex %s (%s)\n", Version, VersionHash)
		},
	}
}
