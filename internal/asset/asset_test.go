package asset

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/currency"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func TestAsset_Value(t *testing.T) {
	tests := []struct {
		name  string
		asset Asset
		size  decimal.Decimal
		price decimal.Decimal
		want  decimal.Decimal
	}{
		{"stock long", New("AAPL", currency.USD), d(10), d(150), d(1500)},
		{"stock short", New("AAPL", currency.USD), d(-10), d(150), d(-1500)},
		{"future with multiplier", Asset{Symbol: "ES", Currency: currency.USD, Multiplier: 50}, d(2), d(4000), d(400000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.asset.Value(tt.size, tt.price)
			if v.Currency != tt.asset.Currency {
				t.Errorf("expected currency %s, got %s", tt.asset.Currency, v.Currency)
			}
			if !v.Value.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, v.Value)
			}
		})
	}
}

func TestAsset_Validate(t *testing.T) {
	if err := New("AAPL", currency.USD).Validate(); err != nil {
		t.Errorf("valid asset rejected: %v", err)
	}
	if err := (Asset{Currency: currency.USD, Multiplier: 1}).Validate(); !errors.Is(err, ErrInvalidAsset) {
		t.Error("empty symbol should be invalid")
	}
	if err := (Asset{Symbol: "ES", Currency: currency.USD}).Validate(); !errors.Is(err, ErrInvalidAsset) {
		t.Error("zero multiplier should be invalid")
	}
}

func TestExchange_SameTradingDay(t *testing.T) {
	nyse := Lookup("NYSE")

	// 23:30 and 00:30 UTC straddle midnight UTC but both fall on the
	// same New York calendar date (19:30 and 20:30 local).
	a := time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC)
	b := time.Date(2024, 6, 11, 0, 30, 0, 0, time.UTC)
	if !nyse.SameTradingDay(a, b) {
		t.Error("expected same NYSE trading day across UTC midnight")
	}

	// 03:00 and 05:00 UTC straddle New York midnight (23:00 vs 01:00).
	c := time.Date(2024, 6, 11, 3, 0, 0, 0, time.UTC)
	e := time.Date(2024, 6, 11, 5, 0, 0, 0, time.UTC)
	if nyse.SameTradingDay(c, e) {
		t.Error("expected different NYSE trading days across local midnight")
	}

	utc := Lookup("")
	if utc.SameTradingDay(a, b) {
		t.Error("UTC calendar should split across UTC midnight")
	}
}

func TestLookup_UnknownFallsBackToUTC(t *testing.T) {
	e := Lookup("NOPE")
	if e.Location() != time.UTC {
		t.Errorf("expected UTC fallback, got %s", e.Location())
	}
}
