package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proj-blank/lightrain-options/internal/backtest"
	"github.com/proj-blank/lightrain-options/internal/config"
	"github.com/proj-blank/lightrain-options/internal/marketdata"
	"github.com/proj-blank/lightrain-options/internal/models"
	"github.com/proj-blank/lightrain-options/internal/premium"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest <strategy>",
	Short: "Grid-search the spread parameters over historical daily bars",
	Long: `Backtest replays the entry/settlement logic for one strategy over its
expiry weekday's historical daily bars: the session open is the entry proxy
and the close the exit proxy. Every combination in the parameter grid is
evaluated independently and the aggregates are ranked by total P&L, win
rate, and profit factor.`,
	Args: cobra.ExactArgs(1),
	RunE: runGridSearch,
}

var backtestYears int

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().IntVarP(&backtestYears, "years", "y", 0, "history depth in years (overrides config)")
}

func runGridSearch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if backtestYears > 0 {
		cfg.Backtest.Years = backtestYears
	}

	s, err := cfg.FindStrategy(args[0])
	if err != nil {
		return err
	}
	curve, err := premium.CurveFor(s.Instrument)
	if err != nil {
		return err
	}

	if cfg.Pricing.ChartURL == "" {
		return fmt.Errorf("pricing.chart_url is required for backtests")
	}
	chart := marketdata.NewChartClient(cfg.Pricing.ChartURL, cfg.Location())

	logger.WithFields(logrus.Fields{
		"symbol": s.Symbol,
		"years":  cfg.Backtest.Years,
	}).Info("downloading daily history")

	// Missing history is fatal: there is no partial result to salvage.
	bars, err := chart.DailyBars(cmd.Context(), s.Symbol, cfg.Backtest.Years)
	if err != nil {
		return fmt.Errorf("downloading history for %s: %w", s.Symbol, err)
	}

	sessions := sessionsForWeekday(bars, s)
	if len(sessions) == 0 {
		return fmt.Errorf("no %s sessions in %d years of %s history",
			s.Weekday, cfg.Backtest.Years, s.Symbol)
	}
	logger.WithField("sessions", len(sessions)).Infof("found %s sessions with data", s.Weekday)

	grid := gridFor(cfg, s)
	combos := backtest.ExpandGrid(grid.OTMPct, grid.SpreadWidth, grid.MinCreditPct, grid.Lots)
	logger.WithField("combinations", len(combos)).Info("testing parameter combinations")

	runner := &backtest.Runner{
		Curve:          curve,
		StrikeStep:     s.StrikeStep,
		LotSize:        s.LotSize,
		InitialCapital: s.InitialCapital,
		EntryHours:     cfg.Backtest.EntryHours,
		MinTrades:      cfg.Backtest.MinTrades,
	}
	results, err := runner.Run(cmd.Context(), sessions, combos)
	if err != nil {
		return err
	}

	backtest.WriteReport(os.Stdout, results, backtest.ReportOptions{
		Title: fmt.Sprintf("%s BACKTEST — %s %s PUT Credit Spread (%dy)",
			s.Name, s.Instrument, s.Weekday, cfg.Backtest.Years),
		TopPnL:          20,
		TopWinRate:      15,
		TopPF:           15,
		RankMinTrades:   cfg.Backtest.RankMinTrades,
		MaxProfitFactor: cfg.Backtest.MaxProfitFactor,
	})
	return nil
}

// sessionsForWeekday keeps only the strategy's expiry weekday, in date order.
func sessionsForWeekday(bars []marketdata.Bar, s *config.StrategyConfig) []backtest.Session {
	weekday := s.TradingWeekday()
	var sessions []backtest.Session
	for _, bar := range bars {
		if bar.Date.Weekday() != weekday {
			continue
		}
		sessions = append(sessions, backtest.Session{
			Date:      bar.Date.Format(models.DateLayout),
			EntrySpot: bar.Open,
			ExitSpot:  bar.Close,
		})
	}
	return sessions
}

// gridFor fills any unset grid dimension with defaults derived from the
// strategy: spread widths at 1x/1.5x/2x the configured width, lots at 1x/2x.
func gridFor(cfg *config.Config, s *config.StrategyConfig) config.GridRange {
	grid := cfg.Backtest.Grid
	if len(grid.OTMPct) == 0 {
		grid.OTMPct = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}
	}
	if len(grid.SpreadWidth) == 0 {
		grid.SpreadWidth = []float64{s.SpreadWidth, s.SpreadWidth * 1.5, s.SpreadWidth * 2}
	}
	if len(grid.MinCreditPct) == 0 {
		grid.MinCreditPct = []float64{10, 15, 20}
	}
	if len(grid.Lots) == 0 {
		grid.Lots = []int{s.Lots, s.Lots * 2}
	}
	return grid
}
