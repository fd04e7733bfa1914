package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/proj-blank/lightrain-options/internal/engine"
	"github.com/proj-blank/lightrain-options/internal/journal"
	"github.com/proj-blank/lightrain-options/internal/premium"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one decision trigger for every due strategy",
	Long: `Run evaluates each configured strategy once: strategies whose expiry
weekday is not today are skipped, due strategies resolve a spot price and
make at most one entry-or-exit decision. Designed to be invoked by an
external scheduler (e.g. cron every few minutes during market hours).`,
	RunE: runTrigger,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runTrigger(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	now := time.Now().In(cfg.Location())
	chain := newPriceChain(cfg, logger)
	notifier := newNotifier(cfg, logger)

	var jrnl *journal.SQLiteJournal
	if cfg.Journal.Path != "" {
		jrnl, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.WithError(err).Warn("trade journal unavailable, continuing without it")
		} else {
			defer func() { _ = jrnl.Close() }()
		}
	}

	for i := range cfg.Strategies {
		s := &cfg.Strategies[i]
		log := logger.WithField("strategy", s.Name)

		curve, err := premium.CurveFor(s.Instrument)
		if err != nil {
			log.WithError(err).Error("no premium curve for instrument")
			continue
		}

		store := openStore(cfg, s, logger)
		eng := engine.New(s, curve, store, notifier, journalOrNil(jrnl), logger)

		if ok, reason := eng.ShouldRun(now); !ok {
			log.WithField("reason", reason).Debug("strategy not due")
			continue
		}

		spot, err := chain.Spot(ctx, s.Symbol)
		if err != nil {
			// No valid price means no decision this trigger; state is untouched.
			log.WithError(err).Error("spot price unavailable, skipping trigger")
			continue
		}

		eng.Run(ctx, now, spot)
	}
	return nil
}

// journalOrNil avoids handing the engine a typed nil inside its interface.
func journalOrNil(j *journal.SQLiteJournal) engine.TradeJournal {
	if j == nil {
		return nil
	}
	return j
}
