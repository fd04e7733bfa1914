// Package premium implements the synthetic 0DTE put premium model.
//
// The model is a deterministic heuristic, not a pricing engine: premium decays
// as a step function of OTM distance and scales linearly with time remaining,
// with a per-instrument floor preventing degenerate near-zero values.
package premium

import (
	"fmt"
	"math"
	"strings"
)

// referenceHours normalizes time-to-expiry against a nominal full trading day
// (earliest entry around 10:00 to the 15:30 close).
const referenceHours = 5.5

// bracket maps an OTM distance band to its base premium percentage.
// UpTo is exclusive; the final bracket uses +Inf.
type bracket struct {
	UpTo    float64
	BasePct float64
}

// Curve is the premium model for one underlying.
type Curve struct {
	Name     string
	Brackets []bracket
	Floor    float64
}

// Nifty is the NIFTY 0DTE put premium curve.
var Nifty = Curve{
	Name: "NIFTY",
	Brackets: []bracket{
		{0.2, 0.45},
		{0.4, 0.35},
		{0.6, 0.25},
		{0.8, 0.18},
		{1.0, 0.12},
		{1.2, 0.08},
		{1.5, 0.05},
		{2.0, 0.03},
		{math.Inf(1), 0.015},
	},
	Floor: 3.0,
}

// BankNifty is the Bank Nifty curve. Base percentages run ~1.4x NIFTY's,
// reflecting the higher implied vol of the banking index.
var BankNifty = Curve{
	Name: "BANKNIFTY",
	Brackets: []bracket{
		{0.2, 0.65},
		{0.4, 0.50},
		{0.6, 0.38},
		{0.8, 0.27},
		{1.0, 0.18},
		{1.25, 0.12},
		{1.5, 0.08},
		{2.0, 0.05},
		{2.5, 0.03},
		{math.Inf(1), 0.015},
	},
	Floor: 5.0,
}

// CurveFor resolves an instrument name to its premium curve.
func CurveFor(instrument string) (Curve, error) {
	switch strings.ToUpper(instrument) {
	case "NIFTY":
		return Nifty, nil
	case "BANKNIFTY":
		return BankNifty, nil
	default:
		return Curve{}, fmt.Errorf("no premium curve for instrument %q", instrument)
	}
}

// Estimate returns the modeled put premium for a strike at the given spot and
// hours to expiry. The result is never below the curve's floor.
func (c Curve) Estimate(spot, strike, hoursToExpiry float64) float64 {
	distancePct := math.Abs(spot-strike) / spot * 100
	timeFactor := math.Min(hoursToExpiry/referenceHours, 1.0)

	basePct := c.Brackets[len(c.Brackets)-1].BasePct
	for _, b := range c.Brackets {
		if distancePct < b.UpTo {
			basePct = b.BasePct
			break
		}
	}

	return math.Max(spot*basePct/100*timeFactor, c.Floor)
}

// SpreadCost returns the modeled net cost of a put spread: the short leg's
// premium minus the long leg's. At entry this is the credit received; while
// open it is the cost to close.
func (c Curve) SpreadCost(spot, shortStrike, longStrike, hoursToExpiry float64) float64 {
	return c.Estimate(spot, shortStrike, hoursToExpiry) - c.Estimate(spot, longStrike, hoursToExpiry)
}
