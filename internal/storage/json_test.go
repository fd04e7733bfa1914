package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/proj-blank/lightrain-options/internal/models"
)

func tempStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "thetat_state.json")
}

func samplePosition() *models.SpreadPosition {
	return &models.SpreadPosition{
		ShortStrike: 25750,
		LongStrike:  25700,
		Credit:      10.4,
		CreditPct:   20.8,
		EntrySpot:   26000,
		EntryTime:   "11:00:00",
		Lots:        2,
		StopTrigger: 20.8,
	}
}

func sampleTrade(pnl float64) models.TradeRecord {
	return models.TradeRecord{
		ID:          "t-1",
		Date:        "2026-01-06",
		EntryTime:   "11:00:00",
		ExitTime:    "15:25:00",
		EntrySpot:   26000,
		ExitSpot:    26050,
		ShortStrike: 25750,
		LongStrike:  25700,
		Credit:      10.4,
		PnL:         pnl,
		ExitReason:  "EOD",
		Result:      models.OutcomeWin,
	}
}

func TestNewStorageDefaults(t *testing.T) {
	s, err := NewJSONStorage(tempStatePath(t), 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	if s.Capital() != 500000 {
		t.Errorf("capital = %v, want initial 500000", s.Capital())
	}
	if s.Position() != nil {
		t.Error("expected flat position on fresh storage")
	}
	if len(s.Trades()) != 0 {
		t.Error("expected empty trade history")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := tempStatePath(t)
	s, err := NewJSONStorage(path, 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}

	if _, err := s.StartSession("2026-01-06"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := s.SetPosition(samplePosition()); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	reloaded, err := NewJSONStorage(path, 500000)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	pos := reloaded.Position()
	if pos == nil || pos.ShortStrike != 25750 || pos.StopTrigger != 20.8 {
		t.Errorf("reloaded position = %+v", pos)
	}
	if reloaded.LastRunDate() != "2026-01-06" {
		t.Errorf("last run date = %q", reloaded.LastRunDate())
	}
}

func TestStateFileKeys(t *testing.T) {
	path := tempStatePath(t)
	s, err := NewJSONStorage(path, 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	if _, err := s.StartSession("2026-01-06"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading state file: %v", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("state file is not valid JSON: %v", err)
	}
	for _, key := range []string{"capital", "position", "trades", "last_run_date"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("state file missing key %q", key)
		}
	}
}

func TestStartSessionDiscardsStalePosition(t *testing.T) {
	path := tempStatePath(t)
	s, err := NewJSONStorage(path, 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	if _, err := s.StartSession("2026-01-06"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if err := s.SetPosition(samplePosition()); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	stale, err := s.StartSession("2026-01-13")
	if err != nil {
		t.Fatalf("StartSession next week: %v", err)
	}
	if !stale {
		t.Error("expected the prior session's position to be reported stale")
	}
	if s.Position() != nil {
		t.Error("stale position must be discarded")
	}
	// Discarded, never settled: the trade history does not grow.
	if len(s.Trades()) != 0 {
		t.Error("discarding a stale position must not record a trade")
	}

	// Same-day re-trigger is a no-op.
	stale, err = s.StartSession("2026-01-13")
	if err != nil || stale {
		t.Errorf("same-day StartSession = %v/%v, want false/nil", stale, err)
	}
}

func TestCloseTrade(t *testing.T) {
	s, err := NewJSONStorage(tempStatePath(t), 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	if err := s.SetPosition(samplePosition()); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	if err := s.CloseTrade(sampleTrade(1560)); err != nil {
		t.Fatalf("CloseTrade: %v", err)
	}
	if s.Capital() != 501560 {
		t.Errorf("capital = %v, want 501560", s.Capital())
	}
	if s.Position() != nil {
		t.Error("position must clear after close")
	}
	stats := s.Stats()
	if stats.Trades != 1 || stats.Wins != 1 || stats.TotalPnL != 1560 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestCloseTradeWithoutPosition(t *testing.T) {
	s, err := NewJSONStorage(tempStatePath(t), 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	if err := s.CloseTrade(sampleTrade(100)); err != ErrNoPosition {
		t.Errorf("err = %v, want ErrNoPosition", err)
	}
}

func TestCorruptStateFileDegradesToDefaults(t *testing.T) {
	path := tempStatePath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewJSONStorage(path, 500000)
	if err == nil {
		t.Error("expected an error describing the unreadable state file")
	}
	if s == nil {
		t.Fatal("storage must still be usable on load failure")
	}
	if s.Capital() != 500000 || s.Position() != nil {
		t.Errorf("expected default state, got capital=%v position=%v",
			s.Capital(), s.Position())
	}
}

func TestPositionReturnsCopy(t *testing.T) {
	s, err := NewJSONStorage(tempStatePath(t), 500000)
	if err != nil {
		t.Fatalf("NewJSONStorage: %v", err)
	}
	if err := s.SetPosition(samplePosition()); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	s.Position().Credit = 0
	if s.Position().Credit != 10.4 {
		t.Error("mutating the returned position must not affect stored state")
	}
}
