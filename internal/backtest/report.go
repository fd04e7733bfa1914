package backtest

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

const header = "  OTM%  Sprd  MinCr  Lots  Trades  Skip   Win%  AvgCr%    AvgPnL    TotalPnL      MaxDD     PF"

// ReportOptions tune the ranked views of a result set.
type ReportOptions struct {
	Title string
	// TopPnL, TopWinRate and TopPF truncate each ranking.
	TopPnL     int
	TopWinRate int
	TopPF      int
	// RankMinTrades qualifies a combination for the win-rate and
	// profit-factor rankings.
	RankMinTrades int
	// MaxProfitFactor excludes near-zero-drawdown artifacts from the
	// profit-factor ranking.
	MaxProfitFactor float64
}

// WriteReport renders the three ranked tables plus the best-by-total-P&L
// summary line.
func WriteReport(w io.Writer, results []Result, opts ReportOptions) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results generated")
		return
	}

	rule := strings.Repeat("=", len(header))
	sep := strings.Repeat("-", len(header))

	byPnL := sortedBy(results, func(a, b Result) bool { return a.TotalPnL > b.TotalPnL })

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, opts.Title, rule)

	fmt.Fprintf(w, "\nTOP %d BY TOTAL P&L:\n%s\n%s\n", opts.TopPnL, header, sep)
	for _, r := range truncate(byPnL, opts.TopPnL) {
		fmt.Fprintln(w, formatRow(r))
	}

	byWinRate := sortedBy(filter(results, func(r Result) bool {
		return r.Trades >= opts.RankMinTrades
	}), func(a, b Result) bool { return a.WinRate > b.WinRate })

	fmt.Fprintf(w, "\nTOP %d BY WIN RATE (min %d trades):\n%s\n%s\n",
		opts.TopWinRate, opts.RankMinTrades, header, sep)
	for _, r := range truncate(byWinRate, opts.TopWinRate) {
		fmt.Fprintln(w, formatRow(r))
	}

	byPF := sortedBy(filter(results, func(r Result) bool {
		return r.Trades >= opts.RankMinTrades && r.ProfitFactor <= opts.MaxProfitFactor
	}), func(a, b Result) bool { return a.ProfitFactor > b.ProfitFactor })

	fmt.Fprintf(w, "\nTOP %d BY PROFIT FACTOR:\n%s\n%s\n", opts.TopPF, header, sep)
	for _, r := range truncate(byPF, opts.TopPF) {
		fmt.Fprintln(w, formatRow(r))
	}

	best := byPnL[0]
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Total combinations tested: %d\n", len(results))
	fmt.Fprintf(w, "Best config: OTM=%g%%  Spread=%gpts  MinCredit=%g%%  Lots=%d  WinRate=%.1f%%  TotalPnL=%+.0f\n",
		best.OTMPct, best.SpreadWidth, best.MinCreditPct, best.Lots, best.WinRate, best.TotalPnL)
}

func formatRow(r Result) string {
	return fmt.Sprintf("%6.2f %5.0f %6.0f %5d %7d %5d %5.1f%% %6.1f%% %+9.0f %+11.0f %10.0f %6.2f",
		r.OTMPct, r.SpreadWidth, r.MinCreditPct, r.Lots, r.Trades, r.Skipped,
		r.WinRate, r.AvgCreditPct, r.AvgPnL, r.TotalPnL, r.MaxDrawdown, r.ProfitFactor)
}

func sortedBy(results []Result, less func(a, b Result) bool) []Result {
	out := make([]Result, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func filter(results []Result, keep func(Result) bool) []Result {
	var out []Result
	for _, r := range results {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func truncate(results []Result, n int) []Result {
	if len(results) > n {
		return results[:n]
	}
	return results
}
