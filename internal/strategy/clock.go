package strategy

import "time"

// NSE cash session bounds, minutes from midnight IST.
const (
	marketOpenMinutes  = 9*60 + 15
	marketCloseMinutes = 15*60 + 30

	// minHoursLeft keeps the time factor strictly positive at or after close.
	minHoursLeft = 0.0001
)

// MinutesOfDay returns the wall-clock time as minutes from midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// HoursToClose returns the hours remaining until market close, floored at a
// small epsilon so premium math near or after the close stays defined.
func HoursToClose(now time.Time) float64 {
	left := float64(marketCloseMinutes-MinutesOfDay(now)) / 60
	if left < minHoursLeft {
		return minHoursLeft
	}
	return left
}

// InMarketHours reports whether now falls within the cash session.
func InMarketHours(now time.Time) bool {
	mins := MinutesOfDay(now)
	return mins >= marketOpenMinutes && mins <= marketCloseMinutes
}
