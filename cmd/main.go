// Command vaultsim runs the simulated custody ledger for the yield vault
// product: it tracks balances, records deposits and enforces the withdrawal
// cooldown, while an ambient generator feeds the activity log with synthetic
// market traffic.
//
// Usage:
//
//	vaultsim --config config.yaml
//	vaultsim (uses CLI flags)
//
// State directory is overridable via the VAULTSIM_STATE_DIR environment
// variable; the pending withdrawal persisted there keeps its cooldown clock
// running across restarts.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vadiminshakov/vaultsim/config"
	"github.com/vadiminshakov/vaultsim/internal/engine"
	"github.com/vadiminshakov/vaultsim/internal/generator"
	"github.com/vadiminshakov/vaultsim/internal/storage/journal"
	"github.com/vadiminshakov/vaultsim/internal/storage/slot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	slotStore, err := slot.NewStore()
	if err != nil {
		log.Fatal(err)
	}

	wal, err := journal.NewWALStore(cfg.JournalDir)
	if err != nil {
		log.Fatal(err)
	}

	eng, err := engine.New(logger, engine.Config{
		StartingBalance:  cfg.StartingBalance,
		Cooldown:         cfg.Cooldown,
		ActivityCapacity: cfg.ActivityCapacity,
		LatencyMin:       cfg.LatencyMin,
		LatencyMax:       cfg.LatencyMax,
		FeeUSD:           cfg.FeeUSD,
		Recipient:        cfg.Recipient,
	}, engine.NewFixedRate(cfg.ConversionRate), slotStore, wal)
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	gen, err := generator.New(logger, eng, cfg.GeneratorVaults, nil)
	if err != nil {
		log.Fatal(err)
	}
	if err := gen.Start(cfg.GeneratorSchedule); err != nil {
		log.Fatal(err)
	}
	defer gen.Stop()

	snapshots := eng.Subscribe()
	defer eng.Unsubscribe(snapshots)

	go func() {
		for snapshot := range snapshots {
			logger.Info("state snapshot",
				zap.Time("ts", snapshot.Timestamp),
				zap.Any("balances", snapshot.Balances),
				zap.Any("positions", snapshot.Positions),
				zap.Bool("pending", snapshot.Pending != nil))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
}
