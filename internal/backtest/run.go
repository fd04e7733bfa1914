package backtest

import (
	"context"
	"errors"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/proj-blank/lightrain-options/internal/premium"
	"github.com/proj-blank/lightrain-options/internal/strategy"
)

// ErrNoSessions means the historical series was empty; there is no partial
// result worth producing.
var ErrNoSessions = errors.New("backtest: no historical sessions")

// profitFactorSentinel stands in for an undefined profit factor when a
// combination never draws down.
const profitFactorSentinel = 99.0

// Runner holds the fixed inputs shared by every combination.
type Runner struct {
	Curve          premium.Curve
	StrikeStep     float64
	LotSize        int
	InitialCapital float64
	// EntryHours is the assumed time-to-expiry at entry. The open price is an
	// early-session proxy, so this sits slightly under the full session.
	EntryHours float64
	// MinTrades drops combinations too thin to aggregate.
	MinTrades int
}

// Run replays every combination over the session series. Combinations are
// evaluated in parallel; each combination's replay is strictly sequential
// because capital and drawdown depend on session order. Combinations with
// fewer than MinTrades realized trades are dropped.
func (r *Runner) Run(ctx context.Context, sessions []Session, combos []Combo) ([]Result, error) {
	if len(sessions) == 0 {
		return nil, ErrNoSessions
	}

	rows := make([]*Result, len(combos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, combo := range combos {
		i, combo := i, combo
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = r.replay(sessions, combo)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(combos))
	for _, row := range rows {
		if row != nil && row.Trades >= r.MinTrades {
			results = append(results, *row)
		}
	}
	return results, nil
}

// replay runs one combination over the full series, in session order.
func (r *Runner) replay(sessions []Session, combo Combo) *Result {
	capital := r.InitialCapital
	peak := capital
	var maxDrawdown float64

	res := &Result{Combo: combo}
	var sumPnL, sumCreditPct float64
	var wins int

	for _, s := range sessions {
		shortStrike, longStrike := strategy.SelectStrikes(s.EntrySpot, combo.OTMPct, combo.SpreadWidth, r.StrikeStep)

		netCredit := r.Curve.SpreadCost(s.EntrySpot, shortStrike, longStrike, r.EntryHours)
		creditPct := netCredit / combo.SpreadWidth * 100
		if creditPct < combo.MinCreditPct {
			res.Skipped++
			continue
		}

		pnlUnit := strategy.Settle(shortStrike, longStrike, netCredit, s.ExitSpot)
		totalPnL := strategy.TotalPnL(pnlUnit, combo.Lots, r.LotSize)

		capital += totalPnL
		if capital > peak {
			peak = capital
		}
		if dd := peak - capital; dd > maxDrawdown {
			maxDrawdown = dd
		}

		res.Trades++
		sumPnL += totalPnL
		sumCreditPct += creditPct
		if totalPnL > 0 {
			wins++
		}
	}

	if res.Trades > 0 {
		n := float64(res.Trades)
		res.WinRate = float64(wins) / n * 100
		res.AvgPnL = sumPnL / n
		res.AvgCreditPct = sumCreditPct / n
	}
	res.TotalPnL = sumPnL
	res.MaxDrawdown = maxDrawdown
	if maxDrawdown > 0 {
		res.ProfitFactor = sumPnL / maxDrawdown
	} else {
		res.ProfitFactor = profitFactorSentinel
	}
	return res
}
