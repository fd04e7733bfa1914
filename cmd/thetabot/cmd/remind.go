package cmd

import (
	"github.com/spf13/cobra"

	"github.com/proj-blank/lightrain-options/internal/notify"
)

var remindCmd = &cobra.Command{
	Use:   "remind <strategy>",
	Short: "Send the evening-before reminder for a strategy",
	Long: `Remind sends a short notification summarizing a strategy's parameters
ahead of its expiry weekday. Intended to be scheduled the evening before.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemind,
}

func init() {
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := cfg.FindStrategy(args[0])
	if err != nil {
		return err
	}

	text := notify.RenderReminder(notify.ReminderPayload{
		Strategy:     s.Name,
		Instrument:   s.Instrument,
		Weekday:      s.Weekday,
		Lots:         s.Lots,
		LotSize:      s.LotSize,
		SpreadWidth:  s.SpreadWidth,
		OTMPct:       s.OTMPct,
		EntryStart:   s.EntryStart,
		EntryEnd:     s.EntryEnd,
		ExitTime:     s.ExitTime,
		StopMultiple: s.StopLossMultiple,
	})

	if err := newNotifier(cfg, logger).Send(cmd.Context(), text); err != nil {
		logger.WithError(err).Error("reminder delivery failed")
		return err
	}
	logger.WithField("strategy", s.Name).Info("reminder sent")
	return nil
}
