package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/encoreprotocol/encore/params"
	"github.com/encoreprotocol/encore/pkg/program"
	"github.com/encoreprotocol/encore/pkg/rpc"
	"github.com/encoreprotocol/encore/pkg/storage"
	"github.com/encoreprotocol/encore/pkg/util"
)

func main() {
	cfg := params.LoadFromEnv("")

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/encored.log"
	}
	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger.Sugar().Infow("logger_initialized", "log_file", logFile)

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data/encore.db"
	}
	store, err := storage.Open(dataDir)
	if err != nil {
		logger.Sugar().Fatalw("store_open_failed", "err", err)
	}
	defer store.Close()

	treeID := os.Getenv("ADDRESS_TREE_ID")
	if treeID == "" {
		treeID = "mainnet"
	}

	// The websocket hub must exist before Program, since Program needs a
	// Sink wired to it at construction time — see rpc.NewServer's doc
	// comment for why construction order matters here.
	hub := rpc.NewHub(logger)
	prog := program.New(store, treeID, util.RealClock{}, logger, rpc.NewHubSink(hub))

	server := rpc.NewServer(prog, hub, logger)

	addr := os.Getenv("RPC_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Sugar().Infow("encored_starting",
		"rpc_addr", addr,
		"single_node", cfg.Ledger.SingleNode,
		"data_dir", dataDir,
		"address_tree_id", treeID,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Sugar().Fatalw("rpc_server_failed", "err", err)
		}
	}
}
