package storage

import (
	"github.com/proj-blank/lightrain-options/internal/models"
)

// MockStorage implements Interface for testing.
type MockStorage struct {
	SaveError   error
	LoadError   error
	capital     float64
	position    *models.SpreadPosition
	trades      []models.TradeRecord
	lastRunDate string
	SaveCalls   int
}

// Compile-time interface compliance check
var _ Interface = (*MockStorage)(nil)

// NewMockStorage creates a mock storage seeded with the given capital.
func NewMockStorage(capital float64) *MockStorage {
	return &MockStorage{capital: capital}
}

// SeedPosition places a position without going through SetPosition.
func (m *MockStorage) SeedPosition(pos *models.SpreadPosition, date string) {
	m.position = pos
	m.lastRunDate = date
}

func (m *MockStorage) StartSession(date string) (bool, error) {
	if m.lastRunDate == date {
		return false, nil
	}
	stale := m.position != nil
	m.position = nil
	m.lastRunDate = date
	return stale, m.Save()
}

func (m *MockStorage) LastRunDate() string { return m.lastRunDate }

func (m *MockStorage) Position() *models.SpreadPosition {
	if m.position == nil {
		return nil
	}
	pos := *m.position
	return &pos
}

func (m *MockStorage) SetPosition(pos *models.SpreadPosition) error {
	m.position = pos
	return m.Save()
}

func (m *MockStorage) CloseTrade(trade models.TradeRecord) error {
	if m.position == nil {
		return ErrNoPosition
	}
	m.capital += trade.PnL
	m.trades = append(m.trades, trade)
	m.position = nil
	return m.Save()
}

func (m *MockStorage) Capital() float64 { return m.capital }

func (m *MockStorage) Trades() []models.TradeRecord {
	trades := make([]models.TradeRecord, len(m.trades))
	copy(trades, m.trades)
	return trades
}

func (m *MockStorage) Stats() models.SessionStats {
	return models.ComputeStats(m.trades)
}

func (m *MockStorage) Save() error {
	m.SaveCalls++
	return m.SaveError
}

func (m *MockStorage) Load() error { return m.LoadError }
