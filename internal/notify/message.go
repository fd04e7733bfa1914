package notify

import (
	"fmt"
	"strings"

	"github.com/proj-blank/lightrain-options/internal/models"
)

// EntryPayload carries the data fields for an entry notification.
type EntryPayload struct {
	Strategy   string
	Instrument string
	Position   *models.SpreadPosition
	LotSize    int
	Spot       float64
}

// ExitPayload carries the data fields for an exit notification.
type ExitPayload struct {
	Strategy   string
	Instrument string
	Trade      models.TradeRecord
	Lots       int
	Stats      models.SessionStats
	Capital    float64
}

// ReminderPayload carries the data fields for an evening-before reminder.
type ReminderPayload struct {
	Strategy     string
	Instrument   string
	Weekday      string
	Lots         int
	LotSize      int
	SpreadWidth  float64
	OTMPct       float64
	EntryStart   string
	EntryEnd     string
	ExitTime     string
	StopMultiple float64
}

// RenderEntry formats an entry notification body.
func RenderEntry(p EntryPayload) string {
	pos := p.Position
	var b strings.Builder
	fmt.Fprintf(&b, "%s PAPER ENTRY\n\n", strings.ToUpper(p.Strategy))
	fmt.Fprintf(&b, "%s PUT Credit Spread (0DTE)\n", p.Instrument)
	fmt.Fprintf(&b, "Short: %.0f | Long: %.0f\n", pos.ShortStrike, pos.LongStrike)
	fmt.Fprintf(&b, "Spread: %.0f pts | Lots: %d x %d\n\n", pos.Width(), pos.Lots, p.LotSize)
	fmt.Fprintf(&b, "Credit: %.2f (%.1f%%)\n", pos.Credit, pos.CreditPct)
	fmt.Fprintf(&b, "Spot: %.2f | Entry: %s\n\n", p.Spot, pos.EntryTime)
	fmt.Fprintf(&b, "Max Profit: %+.0f\n", pos.MaxProfit(p.LotSize))
	if pos.HasStop() {
		fmt.Fprintf(&b, "Stop Trigger: cost-to-close %.2f\n", pos.StopTrigger)
	}
	fmt.Fprintf(&b, "Max Loss: %+.0f", -pos.MaxLoss(p.LotSize))
	return b.String()
}

// RenderExit formats an exit notification body.
func RenderExit(p ExitPayload) string {
	t := p.Trade
	var b strings.Builder
	fmt.Fprintf(&b, "%s PAPER EXIT - %s\n\n", strings.ToUpper(p.Strategy), t.Result)
	fmt.Fprintf(&b, "Short: %.0f | Long: %.0f\n", t.ShortStrike, t.LongStrike)
	fmt.Fprintf(&b, "Entry: %.2f -> Exit: %.2f\n", t.EntrySpot, t.ExitSpot)
	fmt.Fprintf(&b, "%s -> %s\n", t.EntryTime, t.ExitTime)
	fmt.Fprintf(&b, "Reason: %s\n\n", t.ExitReason)
	fmt.Fprintf(&b, "Trade P&L: %+.0f\n", t.PnL)
	fmt.Fprintf(&b, "Lots: %d\n\n", p.Lots)
	fmt.Fprintf(&b, "Session: %d trades | %.0f%% win\n", p.Stats.Trades, p.Stats.WinRate)
	fmt.Fprintf(&b, "Capital: %.0f | Total P&L: %+.0f", p.Capital, p.Stats.TotalPnL)
	return b.String()
}

// RenderReminder formats the evening-before reminder body.
func RenderReminder(p ReminderPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s REMINDER\n\n", strings.ToUpper(p.Strategy))
	fmt.Fprintf(&b, "Runs tomorrow (%s)!\n\n", p.Weekday)
	fmt.Fprintf(&b, "Strategy: %s 0DTE PUT credit spread\n", p.Instrument)
	fmt.Fprintf(&b, "Lots: %d x %d | Spread: %.0f pts | OTM: %g%%\n",
		p.Lots, p.LotSize, p.SpreadWidth, p.OTMPct)
	fmt.Fprintf(&b, "Entry window: %s - %s\n", p.EntryStart, p.EntryEnd)
	if p.StopMultiple > 0 {
		fmt.Fprintf(&b, "Stop loss: %gx credit | Hard exit: %s\n", p.StopMultiple, p.ExitTime)
	} else {
		fmt.Fprintf(&b, "Hard exit: %s\n", p.ExitTime)
	}
	b.WriteString("Mode: PAPER only")
	return b.String()
}
