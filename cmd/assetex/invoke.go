package main

import (
	"encoding/json"
	"time"

	"code.assetex.io/assetex/internal/config"
	"code.assetex.io/assetex/internal/execution"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/metrics"
	"code.assetex.io/assetex/internal/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Version info, overridden at build time via ldflags.
var (
	Version     = "dev"
	VersionHash = "unknown"
)

func invokeCmd(log *logging.Logger) *cobra.Command {
	var (
		inMemory bool
		autoID   bool
	)
	cmd := &cobra.Command{
		Use:   "invoke <operation> [args...]",
		Short: "Run one exchange operation as a single ledger transaction",
		Long: "Run one named entry point (createWallet, createAsset, readItem, transferAsset, " +
			"updateAssetState, queryAssetsByOwner, queryAll, initContract, putBuy, putSell, " +
			"getContractsByOwner) with positional string arguments.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := execution.ParseOp(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.Read(rootPath)
			if err != nil {
				return err
			}
			if inMemory {
				cfg.Storage.Backend = storage.BackendMemory
			}
			metrics.Start(log, cfg.Metrics)

			n, err := newNode(log, *cfg)
			if err != nil {
				return err
			}
			defer n.store.Close()

			opArgs := args[1:]
			if autoID {
				// ids are client-supplied; generate one at this boundary only,
				// the core itself never draws randomness
				opArgs = append([]string{uuid.NewString()}, opArgs...)
			}
			payload, err := n.exec.Process(execution.Request{
				Op:   op,
				Args: opArgs,
				Time: time.Now(),
			})
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			cmd.Println(string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "Use an ephemeral in-memory ledger store")
	cmd.Flags().BoolVar(&autoID, "auto-id", false, "Generate the id argument and prepend it to the supplied args")
	return cmd
}

