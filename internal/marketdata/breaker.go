package marketdata

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerSource wraps a PriceSource with circuit breaker functionality, so a
// flapping source is skipped quickly instead of burning its timeout on every
// trigger.
type BreakerSource struct {
	source  PriceSource
	breaker *gobreaker.CircuitBreaker
}

var _ PriceSource = (*BreakerSource)(nil)

// BreakerSettings configures circuit breaker behavior.
type BreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// DefaultBreakerSettings are sensible defaults for quote endpoints.
var DefaultBreakerSettings = BreakerSettings{
	MaxRequests:  3,
	Interval:     60 * time.Second,
	Timeout:      30 * time.Second,
	MinRequests:  5,
	FailureRatio: 0.6,
}

// NewBreakerSource wraps source with a circuit breaker.
func NewBreakerSource(source PriceSource, settings BreakerSettings, logger *logrus.Logger) *BreakerSource {
	gbSettings := gobreaker.Settings{
		Name:        source.Name() + "-breaker",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
	}

	return &BreakerSource{
		source:  source,
		breaker: gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// Name identifies the wrapped source.
func (b *BreakerSource) Name() string { return b.source.Name() }

// Spot executes the wrapped call through the breaker.
func (b *BreakerSource) Spot(ctx context.Context, symbol string) (float64, error) {
	res, err := b.breaker.Execute(func() (interface{}, error) {
		return b.source.Spot(ctx, symbol)
	})
	if err != nil {
		return 0, err
	}
	price, ok := res.(float64)
	if !ok {
		return 0, ErrNoPrice
	}
	return price, nil
}
