// Package marketdata resolves spot prices and historical daily bars.
//
// Spot prices come from an ordered chain of sources: the first one that
// returns a valid price wins, so a broker outage degrades silently to the
// chart-API fallback. The decision engine only ever sees a single resolved
// price or "unavailable".
package marketdata

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoPrice is returned when every source in the chain failed to produce a
// valid spot price.
var ErrNoPrice = errors.New("no spot price available from any source")

// ErrNoData is returned when a history request yields no usable bars.
var ErrNoData = errors.New("no historical data returned")

// PriceSource provides a current spot price for a symbol.
type PriceSource interface {
	Name() string
	Spot(ctx context.Context, symbol string) (float64, error)
}

// HistoryProvider provides historical daily bars for a symbol.
type HistoryProvider interface {
	DailyBars(ctx context.Context, symbol string, years int) ([]Bar, error)
}

// Bar is one historical daily session. Open serves as the entry proxy and
// Close as the exit proxy in backtests.
type Bar struct {
	Date  time.Time
	Open  float64
	Close float64
}

// Chain tries each price source in order and returns the first valid price.
type Chain struct {
	sources []PriceSource
	logger  *logrus.Logger
}

// NewChain builds a price-source chain. Order matters: earlier sources are
// preferred.
func NewChain(logger *logrus.Logger, sources ...PriceSource) *Chain {
	return &Chain{sources: sources, logger: logger}
}

// Spot resolves the current spot price, falling through failed or invalid
// sources. Failures are logged per source; only total failure is an error.
func (c *Chain) Spot(ctx context.Context, symbol string) (float64, error) {
	for _, src := range c.sources {
		price, err := src.Spot(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithField("source", src.Name()).
				Warn("spot price source failed")
			continue
		}
		if price <= 0 {
			c.logger.WithFields(logrus.Fields{"source": src.Name(), "price": price}).
				Warn("spot price source returned invalid price")
			continue
		}
		return price, nil
	}
	return 0, ErrNoPrice
}
