// Package config provides configuration management for the spread engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

const (
	// defaultInitialCapital is used when a strategy omits initial_capital.
	defaultInitialCapital = 500000.0
	// defaultEntryHours is the assumed time-to-expiry for backtest entries,
	// a conservative proxy for an open-price entry.
	defaultEntryHours = 4.5
	// defaultMinTrades excludes combinations too small to aggregate.
	defaultMinTrades = 5
	// defaultRankMinTrades qualifies combinations for win-rate and
	// profit-factor rankings.
	defaultRankMinTrades = 10
	// defaultMaxProfitFactor caps the profit-factor ranking to exclude
	// near-zero-drawdown artifacts.
	defaultMaxProfitFactor = 50.0
)

// Config represents the complete application configuration.
type Config struct {
	Environment EnvironmentConfig `yaml:"environment"`
	Market      MarketConfig      `yaml:"market"`
	Pricing     PricingConfig     `yaml:"pricing"`
	Notify      NotifyConfig      `yaml:"notify"`
	Storage     StorageConfig     `yaml:"storage"`
	Journal     JournalConfig     `yaml:"journal"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Backtest    BacktestConfig    `yaml:"backtest"`
	Strategies  []StrategyConfig  `yaml:"strategies"`
}

// EnvironmentConfig defines the runtime environment settings.
type EnvironmentConfig struct {
	Mode     string `yaml:"mode"`      // paper only for now
	LogLevel string `yaml:"log_level"` // debug | info | warn | error
}

// MarketConfig defines the exchange session settings.
type MarketConfig struct {
	Timezone string `yaml:"timezone"` // e.g. "Asia/Kolkata"
}

// PricingConfig defines the spot price sources, tried in order.
type PricingConfig struct {
	BrokerURL   string `yaml:"broker_url"`
	BrokerToken string `yaml:"broker_token"`
	ChartURL    string `yaml:"chart_url"`
}

// NotifyConfig defines Telegram notification settings.
type NotifyConfig struct {
	Enabled       bool   `yaml:"enabled"`
	TelegramToken string `yaml:"telegram_token"`
	TelegramChat  string `yaml:"telegram_chat_id"`
}

// StorageConfig defines where per-strategy state files live.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// JournalConfig defines the realized-trade journal database.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// DashboardConfig defines the status HTTP server.
type DashboardConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// BacktestConfig defines grid-search settings.
type BacktestConfig struct {
	Years           int       `yaml:"years"`
	EntryHours      float64   `yaml:"entry_hours_to_expiry"`
	MinTrades       int       `yaml:"min_trades"`
	RankMinTrades   int       `yaml:"rank_min_trades"`
	MaxProfitFactor float64   `yaml:"max_profit_factor"`
	Grid            GridRange `yaml:"grid"`
}

// GridRange enumerates the parameter values swept by the backtester.
type GridRange struct {
	OTMPct       []float64 `yaml:"otm_pct"`
	SpreadWidth  []float64 `yaml:"spread_width"`
	MinCreditPct []float64 `yaml:"min_credit_pct"`
	Lots         []int     `yaml:"lots"`
}

// StrategyConfig defines one spread variant. All fields are read-only for the
// lifetime of a run.
type StrategyConfig struct {
	Name           string  `yaml:"name"`
	Instrument     string  `yaml:"instrument"` // NIFTY | BANKNIFTY
	Symbol         string  `yaml:"symbol"`     // quote symbol, e.g. ^NSEI
	Weekday        string  `yaml:"weekday"`
	SpreadWidth    float64 `yaml:"spread_width"`
	OTMPct         float64 `yaml:"otm_pct"`
	MinCreditPct   float64 `yaml:"min_credit_pct"`
	StrikeStep     float64 `yaml:"strike_step"`
	EntryStart     string  `yaml:"entry_start"` // "HH:MM"
	EntryEnd       string  `yaml:"entry_end"`   // "HH:MM"
	ExitTime       string  `yaml:"exit_time"`   // "HH:MM"
	Lots           int     `yaml:"lots"`
	LotSize        int     `yaml:"lot_size"`
	InitialCapital float64 `yaml:"initial_capital"`
	// StopLossMultiple of entry credit; zero disables the stop.
	StopLossMultiple float64 `yaml:"stop_loss_multiple"`
}

// Load reads and parses the configuration file from the specified path.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Market.Timezone == "" {
		c.Market.Timezone = "Asia/Kolkata"
	}
	if c.Backtest.EntryHours == 0 {
		c.Backtest.EntryHours = defaultEntryHours
	}
	if c.Backtest.MinTrades == 0 {
		c.Backtest.MinTrades = defaultMinTrades
	}
	if c.Backtest.RankMinTrades == 0 {
		c.Backtest.RankMinTrades = defaultRankMinTrades
	}
	if c.Backtest.MaxProfitFactor == 0 {
		c.Backtest.MaxProfitFactor = defaultMaxProfitFactor
	}
	if c.Backtest.Years == 0 {
		c.Backtest.Years = 2
	}
	for i := range c.Strategies {
		if c.Strategies[i].InitialCapital == 0 {
			c.Strategies[i].InitialCapital = defaultInitialCapital
		}
	}
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.Environment.Mode != "" && c.Environment.Mode != "paper" {
		return fmt.Errorf("environment.mode must be 'paper' (live trading is not supported)")
	}

	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone invalid: %w", err)
	}

	if c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required")
	}

	if len(c.Strategies) == 0 {
		return fmt.Errorf("at least one strategy is required")
	}

	seen := make(map[string]bool, len(c.Strategies))
	for i := range c.Strategies {
		s := &c.Strategies[i]
		if err := s.validate(); err != nil {
			return fmt.Errorf("strategies[%d] (%s): %w", i, s.Name, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("strategies[%d]: duplicate name %q", i, s.Name)
		}
		seen[s.Name] = true
	}

	return nil
}

func (s *StrategyConfig) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Instrument != "NIFTY" && s.Instrument != "BANKNIFTY" {
		return fmt.Errorf("instrument must be NIFTY or BANKNIFTY")
	}
	if s.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if _, err := ParseWeekday(s.Weekday); err != nil {
		return err
	}
	if s.SpreadWidth <= 0 {
		return fmt.Errorf("spread_width must be > 0")
	}
	if s.OTMPct <= 0 || s.OTMPct >= 100 {
		return fmt.Errorf("otm_pct must be in (0, 100)")
	}
	if s.MinCreditPct <= 0 || s.MinCreditPct >= 100 {
		return fmt.Errorf("min_credit_pct must be in (0, 100)")
	}
	if s.StrikeStep <= 0 {
		return fmt.Errorf("strike_step must be > 0")
	}
	if s.Lots <= 0 {
		return fmt.Errorf("lots must be > 0")
	}
	if s.LotSize <= 0 {
		return fmt.Errorf("lot_size must be > 0")
	}
	if s.StopLossMultiple < 0 {
		return fmt.Errorf("stop_loss_multiple must be >= 0")
	}

	start, err := ParseClock(s.EntryStart)
	if err != nil {
		return fmt.Errorf("entry_start: %w", err)
	}
	end, err := ParseClock(s.EntryEnd)
	if err != nil {
		return fmt.Errorf("entry_end: %w", err)
	}
	exit, err := ParseClock(s.ExitTime)
	if err != nil {
		return fmt.Errorf("exit_time: %w", err)
	}
	if start >= end {
		return fmt.Errorf("entry window invalid: start %s must precede end %s", s.EntryStart, s.EntryEnd)
	}
	if exit <= end {
		return fmt.Errorf("exit_time %s must come after entry_end %s", s.ExitTime, s.EntryEnd)
	}
	return nil
}

// ParseClock converts an "HH:MM" string to minutes from midnight.
func ParseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("clock value %q must be HH:MM", v)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q must be HH:MM", v)
	}
	return h*60 + m, nil
}

// ParseWeekday converts a weekday name to time.Weekday.
func ParseWeekday(v string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(v, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("weekday %q not recognized", v)
}

// Location returns the configured market timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		// Fallback for minimal containers
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// EntryStartMinutes returns the entry window start as minutes from midnight.
// Validate must have been called; parse failures return 0.
func (s *StrategyConfig) EntryStartMinutes() int { return mustClock(s.EntryStart) }

// EntryEndMinutes returns the entry window end as minutes from midnight.
func (s *StrategyConfig) EntryEndMinutes() int { return mustClock(s.EntryEnd) }

// ExitTimeMinutes returns the EOD exit deadline as minutes from midnight.
func (s *StrategyConfig) ExitTimeMinutes() int { return mustClock(s.ExitTime) }

func mustClock(v string) int {
	mins, err := ParseClock(v)
	if err != nil {
		return 0
	}
	return mins
}

// TradingWeekday returns the variant's expiry weekday.
// Validate must have been called; parse failures return Sunday.
func (s *StrategyConfig) TradingWeekday() time.Weekday {
	d, err := ParseWeekday(s.Weekday)
	if err != nil {
		return time.Sunday
	}
	return d
}

// StatePath returns the state file path for a strategy under the storage dir.
func (c *Config) StatePath(strategyName string) string {
	return filepath.Join(c.Storage.Dir, strategyName+"_state.json")
}

// FindStrategy looks up a strategy variant by name.
func (c *Config) FindStrategy(name string) (*StrategyConfig, error) {
	for i := range c.Strategies {
		if c.Strategies[i].Name == name {
			return &c.Strategies[i], nil
		}
	}
	return nil, fmt.Errorf("strategy %q not found in config", name)
}
