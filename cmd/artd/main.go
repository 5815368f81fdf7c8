package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artledger/config"
	"artledger/native/collateral"
	"artledger/native/settlement"
	"artledger/native/stable"
	"artledger/observability/logging"
	"artledger/rpc"
	"artledger/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger := logging.Setup("artd", cfg.Env, cfg.LogFile)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	collateralEngine := collateral.NewEngine(collateral.NewStore(db))
	collateralEngine.SetLogger(logger)
	stableEngine := stable.NewEngine(stable.NewStore(db))
	stableEngine.SetLogger(logger)

	dispatcher := settlement.NewDispatcher()
	dispatcher.SetLogger(logger)
	collateralEngine.SetPeer(settlement.NewAsyncStable(dispatcher, cfg.CollateralAccount, cfg.StableAccount, stableEngine))
	stableEngine.SetPeer(settlement.NewAsyncCollateral(dispatcher, cfg.StableAccount, cfg.CollateralAccount, collateralEngine))

	if err := bootstrap(cfg, collateralEngine, stableEngine, logger); err != nil {
		logger.Error("Failed to bootstrap ledgers", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go dispatcher.Run(ctx)

	server := rpc.NewServer(collateralEngine, stableEngine, logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.ListenAddress)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("RPC server failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down RPC server", slog.Any("error", err))
	}
	if pending := dispatcher.Drain(); pending > 0 {
		logger.Info("drained pending settlement calls", "count", pending)
	}
}

// bootstrap initialises both ledgers on first start. An already initialised
// ledger is left untouched so restarts keep the persisted state.
func bootstrap(cfg *config.Config, collateralEngine *collateral.Engine, stableEngine *stable.Engine, logger *slog.Logger) error {
	supply, err := collateral.ParseAmount(cfg.InitialSupply)
	if err != nil {
		return fmt.Errorf("parse InitialSupply: %w", err)
	}
	if err := collateralEngine.Initialize(cfg.OwnerAccount, cfg.StableAccount, supply); err != nil {
		if !errors.Is(err, collateral.ErrAlreadyInitialized) {
			return err
		}
	} else {
		logger.Info("collateral ledger initialised", "owner", cfg.OwnerAccount, "supply", supply.String())
	}
	if err := stableEngine.Initialize(cfg.OwnerAccount, cfg.CollateralAccount); err != nil {
		if !errors.Is(err, stable.ErrAlreadyInitialized) {
			return err
		}
	} else {
		logger.Info("stable ledger initialised", "owner", cfg.OwnerAccount)
	}
	return nil
}
