package marketdata

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubSource struct {
	name  string
	price float64
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Spot(_ context.Context, _ string) (float64, error) {
	s.calls++
	return s.price, s.err
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestChainPrefersFirstSource(t *testing.T) {
	primary := &stubSource{name: "broker", price: 26000}
	fallback := &stubSource{name: "chart", price: 25990}
	chain := NewChain(quietLogger(), primary, fallback)

	price, err := chain.Spot(context.Background(), "^NSEI")
	if err != nil {
		t.Fatalf("Spot: %v", err)
	}
	if price != 26000 {
		t.Errorf("price = %v, want primary's 26000", price)
	}
	if fallback.calls != 0 {
		t.Error("fallback must not be consulted when the primary succeeds")
	}
}

func TestChainFallsThroughFailures(t *testing.T) {
	primary := &stubSource{name: "broker", err: errors.New("connection refused")}
	invalid := &stubSource{name: "stale", price: 0}
	fallback := &stubSource{name: "chart", price: 25990}
	chain := NewChain(quietLogger(), primary, invalid, fallback)

	price, err := chain.Spot(context.Background(), "^NSEI")
	if err != nil {
		t.Fatalf("Spot: %v", err)
	}
	if price != 25990 {
		t.Errorf("price = %v, want fallback's 25990", price)
	}
}

func TestChainExhausted(t *testing.T) {
	chain := NewChain(quietLogger(),
		&stubSource{name: "broker", err: errors.New("down")},
		&stubSource{name: "chart", price: -1},
	)

	if _, err := chain.Spot(context.Background(), "^NSEI"); !errors.Is(err, ErrNoPrice) {
		t.Errorf("err = %v, want ErrNoPrice", err)
	}
}
