// Package generator produces synthetic market activity records at a fixed
// cadence to simulate ambient vault traffic unrelated to the user's ledger.
package generator

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/vaultsim/internal/domain"
	"go.uber.org/zap"
)

// Sink receives generated records. Records go through the same append
// contract as real operations, so the feed's ordering and capacity bounds
// stay the single source of truth; balances and positions are never touched.
type Sink interface {
	AppendActivity(record domain.ActivityRecord)
}

var ambientTypes = []domain.ActivityType{
	domain.ActivitySwap,
	domain.ActivityAddLiquidity,
	domain.ActivityRemoveLiquidity,
}

// Generator appends random ambient records on a schedule until stopped.
type Generator struct {
	logger *zap.Logger
	sink   Sink
	vaults []string
	cron   *cron.Cron
	now    func() time.Time
}

// New creates a generator over the given vault set. A nil now falls back to
// the wall clock.
func New(logger *zap.Logger, sink Sink, vaults []string, now func() time.Time) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		return nil, errors.New("sink is required for generator")
	}
	if len(vaults) == 0 {
		return nil, errors.New("at least one vault is required for generator")
	}
	if now == nil {
		now = time.Now
	}

	return &Generator{
		logger: logger,
		sink:   sink,
		vaults: vaults,
		cron:   cron.New(),
		now:    now,
	}, nil
}

// Start schedules record production with a cron spec, e.g. "@every 20s".
func (g *Generator) Start(schedule string) error {
	if _, err := g.cron.AddFunc(schedule, g.emit); err != nil {
		return errors.Wrapf(err, "schedule ambient activity %q", schedule)
	}

	g.cron.Start()
	g.logger.Info("ambient activity generator started", zap.String("schedule", schedule))
	return nil
}

// Stop cancels the periodic task. Already-running emits finish first.
func (g *Generator) Stop() {
	ctx := g.cron.Stop()
	<-ctx.Done()
	g.logger.Info("ambient activity generator stopped")
}

// Emit appends one synthetic record immediately. Exposed for tests and for
// warming the feed at startup.
func (g *Generator) Emit() {
	g.emit()
}

func (g *Generator) emit() {
	record := domain.ActivityRecord{
		ID:        uuid.NewString(),
		Type:      ambientTypes[rand.Intn(len(ambientTypes))],
		Amount:    randomAmount(),
		Timestamp: g.now(),
		VaultID:   g.vaults[rand.Intn(len(g.vaults))],
		Status:    domain.ActivityStatusCompleted,
		TxRef:     uuid.NewString(),
	}

	g.sink.AppendActivity(record)
	g.logger.Debug("ambient activity emitted",
		zap.String("type", record.Type.String()),
		zap.String("vault", record.VaultID),
		zap.String("amount", record.Amount.String()))
}

// randomAmount picks a plausible trade size between 10 and 50010 units.
func randomAmount() decimal.Decimal {
	return decimal.NewFromFloat(10 + rand.Float64()*50000).Round(2)
}
