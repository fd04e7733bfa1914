// Package backtest replays the spread strategy over historical daily sessions
// across a cartesian parameter grid and ranks the aggregate results.
package backtest

// Combo is one point in the parameter grid.
type Combo struct {
	OTMPct       float64
	SpreadWidth  float64
	MinCreditPct float64
	Lots         int
}

// ExpandGrid produces the cartesian product of the grid ranges, in a stable
// order (outermost range varies slowest).
func ExpandGrid(otmPct, spreadWidth, minCreditPct []float64, lots []int) []Combo {
	combos := make([]Combo, 0, len(otmPct)*len(spreadWidth)*len(minCreditPct)*len(lots))
	for _, o := range otmPct {
		for _, w := range spreadWidth {
			for _, c := range minCreditPct {
				for _, l := range lots {
					combos = append(combos, Combo{
						OTMPct:       o,
						SpreadWidth:  w,
						MinCreditPct: c,
						Lots:         l,
					})
				}
			}
		}
	}
	return combos
}

// Result is the aggregate record for one parameter combination over the full
// historical series. Computed once, never mutated afterward.
type Result struct {
	Combo
	Trades       int
	Skipped      int
	WinRate      float64
	AvgCreditPct float64
	AvgPnL       float64
	TotalPnL     float64
	MaxDrawdown  float64
	ProfitFactor float64
}

// Session is one historical trading day: the open is the entry proxy and the
// close the exit proxy.
type Session struct {
	Date      string
	EntrySpot float64
	ExitSpot  float64
}
