package storage

import "github.com/proj-blank/lightrain-options/internal/models"

// Interface defines the contract for session state persistence.
//
// Implementations must be safe for concurrent use: the engine writes state
// after every transition while the dashboard reads it from request handlers.
type Interface interface {
	// Session lifecycle. StartSession applies the day-boundary rule: a
	// persisted position whose date differs from today is discarded
	// unconditionally. It reports whether a stale position was dropped.
	StartSession(date string) (stale bool, err error)
	LastRunDate() string

	// Position management
	Position() *models.SpreadPosition
	SetPosition(pos *models.SpreadPosition) error
	CloseTrade(trade models.TradeRecord) error

	// Accounting and history
	Capital() float64
	Trades() []models.TradeRecord
	Stats() models.SessionStats

	// Data persistence
	Save() error
	Load() error
}

// NewStorage creates a new storage implementation (currently JSON-based).
func NewStorage(filepath string, initialCapital float64) (Interface, error) {
	return NewJSONStorage(filepath, initialCapital)
}

// Ensure JSONStorage implements Interface
var _ Interface = (*JSONStorage)(nil)
