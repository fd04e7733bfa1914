package premium

import (
	"math"
	"testing"
)

func TestEstimateKnownValues(t *testing.T) {
	tests := []struct {
		name   string
		curve  Curve
		spot   float64
		strike float64
		hours  float64
		want   float64
	}{
		// 0.96% OTM lands in the <1.0 bracket (0.12%).
		{"nifty short strike full session", Nifty, 26000, 25750, 5.5, 31.2},
		// 1.15% OTM lands in the <1.2 bracket (0.08%).
		{"nifty long strike full session", Nifty, 26000, 25700, 5.5, 20.8},
		// Time factor scales linearly below the reference session length.
		{"nifty half session", Nifty, 26000, 25750, 2.75, 15.6},
		// Hours beyond the reference are capped at 1.0.
		{"time factor capped", Nifty, 26000, 25750, 10, 31.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.curve.Estimate(tt.spot, tt.strike, tt.hours)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Estimate(%v, %v, %v) = %v, want %v",
					tt.spot, tt.strike, tt.hours, got, tt.want)
			}
		})
	}
}

func TestEstimateFloor(t *testing.T) {
	// Deep OTM with little time left would model near zero; the floor holds.
	if got := Nifty.Estimate(26000, 24000, 0.1); got != 3.0 {
		t.Errorf("NIFTY floor: got %v, want 3.0", got)
	}
	if got := BankNifty.Estimate(52000, 48000, 0.1); got != 5.0 {
		t.Errorf("BANKNIFTY floor: got %v, want 5.0", got)
	}
}

func TestEstimateMonotonicDecay(t *testing.T) {
	// Moving the strike further OTM at fixed spot/time never raises the premium.
	for _, curve := range []Curve{Nifty, BankNifty} {
		spot := 26000.0
		prev := math.Inf(1)
		for strike := spot; strike >= spot*0.96; strike -= 10 {
			got := curve.Estimate(spot, strike, 5.5)
			if got > prev {
				t.Fatalf("%s: premium rose from %v to %v at strike %v",
					curve.Name, prev, got, strike)
			}
			prev = got
		}
	}
}

func TestSpreadCost(t *testing.T) {
	got := Nifty.SpreadCost(26000, 25750, 25700, 5.5)
	if math.Abs(got-10.4) > 1e-9 {
		t.Errorf("SpreadCost = %v, want 10.4", got)
	}
}

func TestCurveFor(t *testing.T) {
	for name, want := range map[string]string{
		"NIFTY":     "NIFTY",
		"banknifty": "BANKNIFTY",
	} {
		curve, err := CurveFor(name)
		if err != nil {
			t.Fatalf("CurveFor(%q): %v", name, err)
		}
		if curve.Name != want {
			t.Errorf("CurveFor(%q).Name = %q, want %q", name, curve.Name, want)
		}
	}

	if _, err := CurveFor("SENSEX"); err == nil {
		t.Error("expected error for unknown instrument")
	}
}
