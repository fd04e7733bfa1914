package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `
environment:
  mode: paper
  log_level: info

storage:
  dir: ./data

strategies:
  - name: thetat
    instrument: NIFTY
    symbol: ^NSEI
    weekday: Tuesday
    spread_width: 50
    otm_pct: 1.0
    min_credit_pct: 15
    strike_step: 50
    entry_start: "11:00"
    entry_end: "14:00"
    exit_time: "15:25"
    lots: 2
    lot_size: 75
    stop_loss_multiple: 2.0
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(cfg.Strategies) != 1 {
		t.Fatalf("strategies = %d, want 1", len(cfg.Strategies))
	}
	s := &cfg.Strategies[0]
	if s.Name != "thetat" || s.Instrument != "NIFTY" {
		t.Errorf("strategy = %+v", s)
	}
	if s.TradingWeekday() != time.Tuesday {
		t.Errorf("weekday = %v, want Tuesday", s.TradingWeekday())
	}
	if s.EntryStartMinutes() != 11*60 || s.ExitTimeMinutes() != 15*60+25 {
		t.Errorf("clock minutes = %d/%d", s.EntryStartMinutes(), s.ExitTimeMinutes())
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Market.Timezone != "Asia/Kolkata" {
		t.Errorf("timezone = %q", cfg.Market.Timezone)
	}
	if cfg.Strategies[0].InitialCapital != 500000 {
		t.Errorf("initial capital = %v, want default 500000", cfg.Strategies[0].InitialCapital)
	}
	bt := cfg.Backtest
	if bt.EntryHours != 4.5 || bt.MinTrades != 5 || bt.RankMinTrades != 10 ||
		bt.MaxProfitFactor != 50 || bt.Years != 2 {
		t.Errorf("backtest defaults = %+v", bt)
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_STATE_DIR", "/var/lib/thetabot")
	cfg, err := Load(writeConfig(t, strings.Replace(validYAML,
		"dir: ./data", "dir: ${TEST_STATE_DIR}", 1)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Dir != "/var/lib/thetabot" {
		t.Errorf("dir = %q", cfg.Storage.Dir)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	if _, err := Load(writeConfig(t, validYAML+"\nbogus_key: true\n")); err == nil {
		t.Error("expected unknown top-level key to be rejected")
	}
}

func TestLoadRejectsLiveMode(t *testing.T) {
	bad := strings.Replace(validYAML, "mode: paper", "mode: live", 1)
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Error("live mode must be rejected")
	}
}

func TestValidateStrategy(t *testing.T) {
	base := func() StrategyConfig {
		return StrategyConfig{
			Name: "t", Instrument: "NIFTY", Symbol: "^NSEI", Weekday: "Tuesday",
			SpreadWidth: 50, OTMPct: 1.0, MinCreditPct: 15, StrikeStep: 50,
			EntryStart: "11:00", EntryEnd: "14:00", ExitTime: "15:25",
			Lots: 2, LotSize: 75,
		}
	}

	tests := []struct {
		name   string
		mutate func(*StrategyConfig)
	}{
		{"bad instrument", func(s *StrategyConfig) { s.Instrument = "SENSEX" }},
		{"bad weekday", func(s *StrategyConfig) { s.Weekday = "Someday" }},
		{"inverted entry window", func(s *StrategyConfig) { s.EntryStart = "14:30" }},
		{"exit inside entry window", func(s *StrategyConfig) { s.ExitTime = "13:00" }},
		{"zero lots", func(s *StrategyConfig) { s.Lots = 0 }},
		{"negative stop", func(s *StrategyConfig) { s.StopLossMultiple = -1 }},
		{"malformed clock", func(s *StrategyConfig) { s.EntryEnd = "2pm" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)
			if err := s.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	s := base()
	if err := s.validate(); err != nil {
		t.Errorf("valid strategy rejected: %v", err)
	}
}

func TestValidateDuplicateNames(t *testing.T) {
	cfg := Config{
		Market:  MarketConfig{Timezone: "Asia/Kolkata"},
		Storage: StorageConfig{Dir: "./data"},
		Strategies: []StrategyConfig{
			{Name: "thetat", Instrument: "NIFTY", Symbol: "^NSEI", Weekday: "Tuesday",
				SpreadWidth: 50, OTMPct: 1, MinCreditPct: 15, StrikeStep: 50,
				EntryStart: "11:00", EntryEnd: "14:00", ExitTime: "15:25", Lots: 2, LotSize: 75},
			{Name: "thetat", Instrument: "NIFTY", Symbol: "^NSEI", Weekday: "Thursday",
				SpreadWidth: 50, OTMPct: 1, MinCreditPct: 15, StrikeStep: 50,
				EntryStart: "10:00", EntryEnd: "14:00", ExitTime: "15:25", Lots: 10, LotSize: 50},
		},
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("err = %v, want duplicate-name rejection", err)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:15", 9*60 + 15, false},
		{"15:25", 15*60 + 25, false},
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseClock(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestStatePath(t *testing.T) {
	cfg := Config{Storage: StorageConfig{Dir: "./data/"}}
	if got := cfg.StatePath("thetaw"); got != filepath.Join("data", "thetaw_state.json") {
		t.Errorf("StatePath = %q", got)
	}
}

func TestFindStrategy(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := cfg.FindStrategy("thetat"); err != nil {
		t.Errorf("FindStrategy(thetat): %v", err)
	}
	if _, err := cfg.FindStrategy("missing"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
