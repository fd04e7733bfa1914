package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/proj-blank/lightrain-options/internal/models"
)

// State is the persisted session document. The engine owns this schema; the
// key names are part of the on-disk contract and must not change.
type State struct {
	Capital     float64                `json:"capital"`
	Position    *models.SpreadPosition `json:"position"`
	Trades      []models.TradeRecord   `json:"trades"`
	LastRunDate string                 `json:"last_run_date"`
}

// JSONStorage persists session state to a single JSON file with atomic
// temp-file-and-rename writes.
type JSONStorage struct {
	mu             sync.RWMutex
	filepath       string
	initialCapital float64
	data           State
}

// NewJSONStorage opens (or initializes) the state file at path. A missing or
// unreadable file is not an error: the safe default of a flat position with
// the configured initial capital is used instead.
func NewJSONStorage(path string, initialCapital float64) (*JSONStorage, error) {
	s := &JSONStorage{
		filepath:       path,
		initialCapital: initialCapital,
	}
	s.reset()

	if _, err := os.Stat(path); err == nil {
		if err := s.Load(); err != nil {
			// Degrade to the default state rather than refusing to run.
			s.reset()
			return s, fmt.Errorf("loading state (using defaults): %w", err)
		}
	}

	return s, nil
}

func (s *JSONStorage) reset() {
	s.data = State{
		Capital: s.initialCapital,
		Trades:  []models.TradeRecord{},
	}
}

// Load reads the state file into memory.
func (s *JSONStorage) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filepath)
	if err != nil {
		return err
	}

	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	if loaded.Trades == nil {
		loaded.Trades = []models.TradeRecord{}
	}
	s.data = loaded
	return nil
}

// Save writes the state file durably via a temp file and atomic rename.
func (s *JSONStorage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *JSONStorage) saveLocked() error {
	if dir := filepath.Dir(s.filepath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := s.filepath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpFile, s.filepath)
}

// StartSession applies the day-boundary rule. Any position persisted under a
// different date is discarded without settling it; sessions are fully
// self-contained by design.
func (s *JSONStorage) StartSession(date string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.LastRunDate == date {
		return false, nil
	}

	stale := s.data.Position != nil
	s.data.Position = nil
	s.data.LastRunDate = date
	return stale, s.saveLocked()
}

// LastRunDate returns the date of the last recorded session.
func (s *JSONStorage) LastRunDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.LastRunDate
}

// Position returns a copy of the open position, or nil when flat.
func (s *JSONStorage) Position() *models.SpreadPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Position == nil {
		return nil
	}
	pos := *s.data.Position
	return &pos
}

// SetPosition records a newly opened position and saves.
func (s *JSONStorage) SetPosition(pos *models.SpreadPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Position = pos
	return s.saveLocked()
}

// CloseTrade settles the open position: appends the realized trade record,
// applies its P&L to capital, clears the position, and saves.
func (s *JSONStorage) CloseTrade(trade models.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Position == nil {
		return ErrNoPosition
	}

	s.data.Capital += trade.PnL
	s.data.Trades = append(s.data.Trades, trade)
	s.data.Position = nil
	return s.saveLocked()
}

// Capital returns the running capital.
func (s *JSONStorage) Capital() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Capital
}

// Trades returns a copy of the realized trade history.
func (s *JSONStorage) Trades() []models.TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trades := make([]models.TradeRecord, len(s.data.Trades))
	copy(trades, s.data.Trades)
	return trades
}

// Stats aggregates the trade history into session statistics.
func (s *JSONStorage) Stats() models.SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.ComputeStats(s.data.Trades)
}
