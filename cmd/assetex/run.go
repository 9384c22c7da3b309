package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.assetex.io/assetex/internal/assets"
	"code.assetex.io/assetex/internal/config"
	"code.assetex.io/assetex/internal/contracts"
	"code.assetex.io/assetex/internal/execution"
	"code.assetex.io/assetex/internal/logging"
	"code.assetex.io/assetex/internal/matching"
	"code.assetex.io/assetex/internal/metrics"
	"code.assetex.io/assetex/internal/settlement"
	"code.assetex.io/assetex/internal/storage"
	"code.assetex.io/assetex/internal/wallets"

	"github.com/spf13/cobra"
)

// node bundles the engine graph so configuration reloads can reach
// every component.
type node struct {
	store   storage.Store
	exec    *execution.Engine
	wallets *wallets.Engine
	assets  *assets.Engine
	book    *contracts.Engine
	matcher *matching.Engine
	settler *settlement.Engine
}

func newNode(log *logging.Logger, cfg config.Config) (*node, error) {
	store, err := storage.NewStore(log, cfg.Storage)
	if err != nil {
		return nil, err
	}
	settler := settlement.New(log, cfg.Settlement)
	matcher := matching.New(log, cfg.Matching, settler)
	book := contracts.New(log, cfg.Contracts, matcher)
	w := wallets.New(log, cfg.Wallets)
	a := assets.New(log, cfg.Assets, w, book)
	return &node{
		store:   store,
		exec:    execution.New(log, cfg.Execution, store, w, a, book),
		wallets: w,
		assets:  a,
		book:    book,
		matcher: matcher,
		settler: settler,
	}, nil
}

func (n *node) reloadConf(cfg config.Config) {
	n.exec.ReloadConf(cfg.Execution)
	n.wallets.ReloadConf(cfg.Wallets)
	n.assets.ReloadConf(cfg.Assets)
	n.book.ReloadConf(cfg.Contracts)
	n.matcher.ReloadConf(cfg.Matching)
	n.settler.ReloadConf(cfg.Settlement)
}

// command is one request on the run loop's stdin, a JSON line with the
// entry point name, positional arguments and an optional transaction
// timestamp in unix nanos. A zero timestamp means now; harnesses that
// need replayable runs supply it explicitly.
type command struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
	Time int64    `json:"time,omitempty"`
}

type response struct {
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func runCmd(log *logging.Logger) *cobra.Command {
	var inMemory bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the exchange, reading JSON-line requests on stdin",
		Long: "Run the exchange as a long-lived process: one JSON object per input line " +
			`({"op":"putBuy","args":["B1","bob","500"]}), one JSON response per output line. ` +
			"The configuration file is watched and engine log levels reload live.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			watcher, err := config.NewWatcher(ctx, log, rootPath)
			if err != nil {
				return err
			}
			cfg := watcher.Get()
			if inMemory {
				cfg.Storage.Backend = storage.BackendMemory
			}
			metrics.Start(log, cfg.Metrics)

			n, err := newNode(log, cfg)
			if err != nil {
				return err
			}
			defer n.store.Close()
			watcher.OnConfigUpdate(n.reloadConf)

			return serveStdin(ctx, n, cmd)
		},
	}
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "Use an ephemeral in-memory ledger store")
	return cmd
}

func serveStdin(ctx context.Context, n *node, cmd *cobra.Command) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	enc := json.NewEncoder(cmd.OutOrStdout())
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if line == "" {
				continue
			}
			if err := enc.Encode(handle(n, line)); err != nil {
				return err
			}
		}
	}
}

func handle(n *node, line string) response {
	var c command
	if err := json.Unmarshal([]byte(line), &c); err != nil {
		return response{Error: "malformed request: " + err.Error()}
	}
	op, err := execution.ParseOp(c.Op)
	if err != nil {
		return response{Error: err.Error()}
	}
	ts := time.Now()
	if c.Time != 0 {
		ts = time.Unix(0, c.Time)
	}
	payload, err := n.exec.Process(execution.Request{
		Op:   op,
		Args: c.Args,
		Time: ts,
	})
	if err != nil {
		return response{Error: err.Error()}
	}
	return response{Payload: payload}
}
