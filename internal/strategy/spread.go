// Package strategy implements strike selection, credit filtering, settlement
// math, and exit-rule evaluation for short-put vertical credit spreads.
package strategy

import (
	"time"

	"github.com/proj-blank/lightrain-options/internal/models"
	"github.com/proj-blank/lightrain-options/internal/premium"
	"github.com/proj-blank/lightrain-options/internal/util"
)

// Params are the per-variant knobs that shape a candidate spread.
type Params struct {
	OTMPct       float64
	SpreadWidth  float64
	MinCreditPct float64
	StrikeStep   float64
	Lots         int
	// StopMultiple of entry credit at which cost-to-close forces an exit.
	// Zero disables the stop.
	StopMultiple float64
}

// SelectStrikes derives the short and long strikes for a put credit spread.
// The short strike is the nearest valid strike to the OTM offset below spot;
// the long strike sits one spread width further out. There is no error path:
// economically unviable pairs are rejected downstream by the credit filter.
func SelectStrikes(spot, otmPct, spreadWidth, strikeStep float64) (shortStrike, longStrike float64) {
	shortStrike = util.RoundToStep(spot*(1-otmPct/100), strikeStep)
	longStrike = shortStrike - spreadWidth
	return shortStrike, longStrike
}

// BuildCandidate selects strikes, prices the spread with the premium model,
// and applies the minimum-credit filter. A nil position means the candidate
// was rejected; the computed credit percentage is returned either way so the
// caller can log the rejection.
func BuildCandidate(curve premium.Curve, p Params, spot float64, now time.Time) (*models.SpreadPosition, float64) {
	shortStrike, longStrike := SelectStrikes(spot, p.OTMPct, p.SpreadWidth, p.StrikeStep)
	hoursLeft := HoursToClose(now)

	netCredit := curve.SpreadCost(spot, shortStrike, longStrike, hoursLeft)
	creditPct := netCredit / p.SpreadWidth * 100

	if creditPct < p.MinCreditPct {
		return nil, creditPct
	}

	pos := &models.SpreadPosition{
		ShortStrike: shortStrike,
		LongStrike:  longStrike,
		Credit:      netCredit,
		CreditPct:   creditPct,
		EntrySpot:   spot,
		EntryTime:   now.Format(models.TimeLayout),
		Lots:        p.Lots,
	}
	if p.StopMultiple > 0 {
		pos.StopTrigger = netCredit * p.StopMultiple
	}
	return pos, creditPct
}

// Settle computes the per-unit P&L of a put credit spread at exit.
// This is exact settlement math: full credit above the short strike, max loss
// below the long strike, linear in between.
func Settle(shortStrike, longStrike, credit, exitSpot float64) float64 {
	switch {
	case exitSpot >= shortStrike:
		return credit
	case exitSpot <= longStrike:
		return credit - (shortStrike - longStrike)
	default:
		return credit - (shortStrike - exitSpot)
	}
}

// TotalPnL scales a per-unit P&L to the position's full size.
func TotalPnL(pnlPerUnit float64, lots, lotSize int) float64 {
	return pnlPerUnit * float64(lots) * float64(lotSize)
}

// ExitReason identifies which rule closed a position.
type ExitReason string

const (
	// ExitReasonStopLoss fires when cost-to-close reaches the stop trigger.
	ExitReasonStopLoss ExitReason = "stop-loss"
	// ExitReasonEOD fires at the configured end-of-day exit time.
	ExitReasonEOD ExitReason = "EOD"
)

// ShouldExit evaluates the exit rules for an open position, in priority order:
// stop-loss first (when the position carries a stop trigger), then the
// end-of-day deadline. It is a pure function of its inputs.
func ShouldExit(curve premium.Curve, pos *models.SpreadPosition, spot float64, now time.Time, exitAfterMinutes int) (bool, ExitReason) {
	if pos.HasStop() {
		costToClose := curve.SpreadCost(spot, pos.ShortStrike, pos.LongStrike, HoursToClose(now))
		if costToClose >= pos.StopTrigger {
			return true, ExitReasonStopLoss
		}
	}

	if MinutesOfDay(now) >= exitAfterMinutes {
		return true, ExitReasonEOD
	}

	return false, ""
}

// CostToClose reprices an open spread at current spot and time. Used by the
// monitoring log and by the stop-loss rule.
func CostToClose(curve premium.Curve, pos *models.SpreadPosition, spot float64, now time.Time) float64 {
	return curve.SpreadCost(spot, pos.ShortStrike, pos.LongStrike, HoursToClose(now))
}
