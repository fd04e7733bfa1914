package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func chartServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChartSpotSkipsTrailingNulls(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[{
		"timestamp":[1767676500,1767676560,1767676620],
		"indicators":{"quote":[{
			"open":[25990,25995,0],
			"close":[25995,26010,0]
		}]}
	}],"error":null}}`)

	c := NewChartClient(srv.URL, ist)
	price, err := c.Spot(context.Background(), "^NSEI")
	if err != nil {
		t.Fatalf("Spot: %v", err)
	}
	if price != 26010 {
		t.Errorf("price = %v, want last non-null close 26010", price)
	}
}

func TestChartDailyBarsDropsIncomplete(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[{
		"timestamp":[1767225600,1767312000,1767398400],
		"indicators":{"quote":[{
			"open":[52000,0,51900],
			"close":[52100,51950,52050]
		}]}
	}],"error":null}}`)

	c := NewChartClient(srv.URL, ist)
	bars, err := c.DailyBars(context.Background(), "^NSEBANK", 2)
	if err != nil {
		t.Fatalf("DailyBars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2 (missing open dropped)", len(bars))
	}
	if bars[0].Open != 52000 || bars[0].Close != 52100 {
		t.Errorf("bars[0] = %+v", bars[0])
	}
}

func TestChartAPIError(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)

	c := NewChartClient(srv.URL, ist)
	if _, err := c.Spot(context.Background(), "^NSEI"); err == nil {
		t.Error("expected error from chart API error payload")
	}
}

func TestChartNoData(t *testing.T) {
	srv := chartServer(t, `{"chart":{"result":[],"error":null}}`)

	c := NewChartClient(srv.URL, ist)
	if _, err := c.DailyBars(context.Background(), "^NSEI", 2); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
}
