// Package engine implements the per-trigger decision loop for one spread
// strategy variant: session boundary handling, entry checks while flat, and
// exit checks while a position is open.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/proj-blank/lightrain-options/internal/config"
	"github.com/proj-blank/lightrain-options/internal/models"
	"github.com/proj-blank/lightrain-options/internal/notify"
	"github.com/proj-blank/lightrain-options/internal/premium"
	"github.com/proj-blank/lightrain-options/internal/storage"
	"github.com/proj-blank/lightrain-options/internal/strategy"
)

// TradeJournal records realized trades outside the state file. It is optional
// supporting infrastructure; failures never affect the decision.
type TradeJournal interface {
	RecordTrade(strategy string, t models.TradeRecord) error
}

// Engine drives one strategy variant. It is re-entered once per external
// trigger; all state lives in storage between invocations.
type Engine struct {
	cfg      *config.StrategyConfig
	curve    premium.Curve
	store    storage.Interface
	notifier notify.Notifier
	journal  TradeJournal
	logger   *logrus.Logger
}

// New creates an engine for one strategy variant. journal may be nil.
func New(cfg *config.StrategyConfig, curve premium.Curve, store storage.Interface,
	notifier notify.Notifier, journal TradeJournal, logger *logrus.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		curve:    curve,
		store:    store,
		notifier: notifier,
		journal:  journal,
		logger:   logger,
	}
}

// ShouldRun reports whether this trigger applies to the variant at all:
// right weekday, inside market hours. The reason explains a false result.
func (e *Engine) ShouldRun(now time.Time) (bool, string) {
	if now.Weekday() != e.cfg.TradingWeekday() {
		return false, "not " + e.cfg.Weekday
	}
	if !strategy.InMarketHours(now) {
		return false, "outside market hours"
	}
	return true, ""
}

// Run executes one trigger for the variant: applies the session boundary,
// then makes at most one entry-or-exit decision. The caller has already
// resolved a valid spot price; an unavailable price means Run is not called
// and no state is touched.
func (e *Engine) Run(ctx context.Context, now time.Time, spot float64) {
	log := e.logger.WithFields(logrus.Fields{"strategy": e.cfg.Name, "spot": spot})

	today := models.SessionDate(now)
	stale, err := e.store.StartSession(today)
	if stale {
		log.Warn("stale position from previous session cleared")
	}
	if err != nil {
		log.WithError(err).Error("failed to persist session start")
	}

	if pos := e.store.Position(); pos == nil {
		e.checkEntry(ctx, now, spot, log)
	} else {
		e.checkExit(ctx, now, spot, pos, log)
	}
}

func (e *Engine) checkEntry(ctx context.Context, now time.Time, spot float64, log *logrus.Entry) {
	mins := strategy.MinutesOfDay(now)
	if mins < e.cfg.EntryStartMinutes() || mins > e.cfg.EntryEndMinutes() {
		log.Info("outside entry window, no entry check")
		return
	}

	params := strategy.Params{
		OTMPct:       e.cfg.OTMPct,
		SpreadWidth:  e.cfg.SpreadWidth,
		MinCreditPct: e.cfg.MinCreditPct,
		StrikeStep:   e.cfg.StrikeStep,
		Lots:         e.cfg.Lots,
		StopMultiple: e.cfg.StopLossMultiple,
	}

	pos, creditPct := strategy.BuildCandidate(e.curve, params, spot, now)
	if pos == nil {
		log.WithFields(logrus.Fields{
			"credit_pct": creditPct,
			"min_credit": e.cfg.MinCreditPct,
		}).Info("credit too low, no entry signal")
		return
	}

	// The entry decision stands even if persistence fails.
	if err := e.store.SetPosition(pos); err != nil {
		log.WithError(err).Error("failed to persist new position")
	}

	log.WithFields(logrus.Fields{
		"short":      pos.ShortStrike,
		"long":       pos.LongStrike,
		"credit":     pos.Credit,
		"credit_pct": pos.CreditPct,
	}).Info("entry: put credit spread opened")

	e.send(ctx, notify.RenderEntry(notify.EntryPayload{
		Strategy:   e.cfg.Name,
		Instrument: e.cfg.Instrument,
		Position:   pos,
		LotSize:    e.cfg.LotSize,
		Spot:       spot,
	}), log)
}

func (e *Engine) checkExit(ctx context.Context, now time.Time, spot float64,
	pos *models.SpreadPosition, log *logrus.Entry) {

	shouldExit, reason := strategy.ShouldExit(e.curve, pos, spot, now, e.cfg.ExitTimeMinutes())
	if !shouldExit {
		e.monitor(now, spot, pos, log)
		return
	}

	pnlPerUnit := strategy.Settle(pos.ShortStrike, pos.LongStrike, pos.Credit, spot)
	totalPnL := strategy.TotalPnL(pnlPerUnit, pos.Lots, e.cfg.LotSize)

	trade := models.TradeRecord{
		ID:          uuid.New().String(),
		Date:        models.SessionDate(now),
		EntryTime:   pos.EntryTime,
		ExitTime:    now.Format(models.TimeLayout),
		EntrySpot:   pos.EntrySpot,
		ExitSpot:    spot,
		ShortStrike: pos.ShortStrike,
		LongStrike:  pos.LongStrike,
		Credit:      pos.Credit,
		PnL:         totalPnL,
		ExitReason:  string(reason),
		Result:      models.ClassifyOutcome(pnlPerUnit, pos.Credit),
	}

	// The exit decision stands even if persistence fails.
	if err := e.store.CloseTrade(trade); err != nil {
		log.WithError(err).Error("failed to persist closed trade")
	}
	if e.journal != nil {
		if err := e.journal.RecordTrade(e.cfg.Name, trade); err != nil {
			log.WithError(err).Error("failed to journal trade")
		}
	}

	log.WithFields(logrus.Fields{
		"reason": string(reason),
		"pnl":    totalPnL,
		"result": string(trade.Result),
	}).Info("exit: position closed")

	e.send(ctx, notify.RenderExit(notify.ExitPayload{
		Strategy:   e.cfg.Name,
		Instrument: e.cfg.Instrument,
		Trade:      trade,
		Lots:       pos.Lots,
		Stats:      e.store.Stats(),
		Capital:    e.store.Capital(),
	}), log)
}

// monitor logs the open position without changing state. The state file is
// still rewritten so running stats stay durable across triggers.
func (e *Engine) monitor(now time.Time, spot float64, pos *models.SpreadPosition, log *logrus.Entry) {
	pnlPerUnit := strategy.Settle(pos.ShortStrike, pos.LongStrike, pos.Credit, spot)
	unrealized := strategy.TotalPnL(pnlPerUnit, pos.Lots, e.cfg.LotSize)

	fields := logrus.Fields{
		"short":      pos.ShortStrike,
		"unrealized": unrealized,
	}
	if pos.HasStop() {
		fields["cost_to_close"] = strategy.CostToClose(e.curve, pos, spot, now)
		fields["stop_trigger"] = pos.StopTrigger
	}
	log.WithFields(fields).Info("monitoring open position")

	if err := e.store.Save(); err != nil {
		log.WithError(err).Error("failed to persist state after monitor pass")
	}
}

// send delivers a notification; failure is logged and otherwise ignored.
func (e *Engine) send(ctx context.Context, text string, log *logrus.Entry) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Send(ctx, text); err != nil {
		log.WithError(err).Error("notification delivery failed")
	}
}
