// Package cmd wires the configuration, price sources, storage, and decision
// engine into the thetabot command tree.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/proj-blank/lightrain-options/internal/config"
	"github.com/proj-blank/lightrain-options/internal/marketdata"
	"github.com/proj-blank/lightrain-options/internal/notify"
	"github.com/proj-blank/lightrain-options/internal/storage"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "thetabot",
	Short: "Paper-trading engine for 0DTE index PUT credit spreads",
	Long: `Thetabot paper-trades 0DTE PUT credit spreads on NIFTY and BANKNIFTY,
one configured variant per expiry weekday.

Each external trigger makes at most one entry-or-exit decision per strategy:
pick strikes below spot, price the spread with a synthetic premium model,
enter when the credit clears the configured minimum, and exit on stop-loss
or at the end-of-day deadline. State persists between triggers as one JSON
file per strategy; realized trades are also journaled to SQLite.

The backtest command replays the same decision logic over historical daily
bars across a parameter grid.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "path to config file")
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.Environment.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	return cfg, logger, nil
}

// openStore opens a strategy's state file. A read failure degrades to a flat
// position with initial capital; it is logged, not fatal.
func openStore(cfg *config.Config, s *config.StrategyConfig, logger *logrus.Logger) storage.Interface {
	store, err := storage.NewStorage(cfg.StatePath(s.Name), s.InitialCapital)
	if err != nil {
		logger.WithError(err).WithField("strategy", s.Name).
			Warn("state file unreadable, starting from defaults")
	}
	return store
}

func newNotifier(cfg *config.Config, logger *logrus.Logger) notify.Notifier {
	if cfg.Notify.Enabled {
		return notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.TelegramChat)
	}
	return &notify.LogNotifier{Logger: logger}
}

// newPriceChain builds the ordered spot-price fallback chain: broker quotes
// first (behind a circuit breaker), chart API second.
func newPriceChain(cfg *config.Config, logger *logrus.Logger) *marketdata.Chain {
	var sources []marketdata.PriceSource
	if cfg.Pricing.BrokerURL != "" {
		broker := marketdata.NewBrokerClient(cfg.Pricing.BrokerURL, cfg.Pricing.BrokerToken)
		sources = append(sources,
			marketdata.NewBreakerSource(broker, marketdata.DefaultBreakerSettings, logger))
	}
	if cfg.Pricing.ChartURL != "" {
		sources = append(sources, marketdata.NewChartClient(cfg.Pricing.ChartURL, cfg.Location()))
	}
	return marketdata.NewChain(logger, sources...)
}
