package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/currency"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestHistoricFeed_RejectsOutOfOrder(t *testing.T) {
	f := NewHistoricFeed()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := asset.New("AAPL", currency.USD)

	if err := f.AddPrice(t0, a, d(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.AddPrice(t0, a, d(101)); err != nil {
		t.Fatalf("equal timestamps are allowed: %v", err)
	}
	if err := f.AddPrice(t0.Add(-time.Second), a, d(99)); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("expected ErrOutOfOrder, got %v", err)
	}
	if f.Len() != 2 {
		t.Errorf("rejected event must not be stored, len=%d", f.Len())
	}
}

func TestRun_DeliversInOrderAndCloses(t *testing.T) {
	f := NewHistoricFeed()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := asset.New("AAPL", currency.USD)
	for i := 0; i < 5; i++ {
		if err := f.AddPrice(t0.Add(time.Duration(i)*time.Minute), a, d(100+float64(i))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var got []Event
	for e := range Run(context.Background(), f, 2) {
		got = append(got, e)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 events, got %d", len(got))
	}
	for i, e := range got {
		want := t0.Add(time.Duration(i) * time.Minute)
		if !e.Time.Equal(want) {
			t.Errorf("event %d: expected time %s, got %s", i, want, e.Time)
		}
		bar, ok := e.Price(a)
		if !ok {
			t.Fatalf("event %d: missing price for %s", i, a.Symbol)
		}
		if !bar.Close.Equal(d(100 + float64(i))) {
			t.Errorf("event %d: expected close %d, got %s", i, 100+i, bar.Close)
		}
	}
}

func TestRun_CancelStopsPlayback(t *testing.T) {
	f := NewHistoricFeed()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := asset.New("AAPL", currency.USD)
	for i := 0; i < 100; i++ {
		if err := f.AddPrice(t0.Add(time.Duration(i)*time.Minute), a, d(100)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := Run(ctx, f, 0)
	<-ch // take one event, then cancel mid-stream
	cancel()

	count := 1
	for range ch {
		count++
	}
	if count >= 100 {
		t.Errorf("cancel should stop playback early, consumed %d events", count)
	}
}

func TestRandomWalkFeed_StepCountAndBars(t *testing.T) {
	a := asset.New("AAPL", currency.USD)
	f := &RandomWalkFeed{
		Assets:     []asset.Asset{a},
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:   time.Minute,
		Steps:      50,
		StartPrice: d(100),
		Volatility: 0.02,
		Seed:       1,
	}

	count := 0
	for e := range Run(context.Background(), f, 10) {
		bar, ok := e.Price(a)
		if !ok {
			t.Fatal("missing price bar")
		}
		if bar.High.LessThan(bar.Low) {
			t.Errorf("bar high %s below low %s", bar.High, bar.Low)
		}
		if bar.Close.LessThan(d(1)) {
			t.Errorf("price fell below the 1%% floor: %s", bar.Close)
		}
		count++
	}
	if count != 50 {
		t.Errorf("expected 50 events, got %d", count)
	}
}
