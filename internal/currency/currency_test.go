package currency

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// d is a test helper for creating decimals from float64.
func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// --- Wallet tests ---

func TestWallet_DepositAndGet(t *testing.T) {
	w := NewWallet()
	w.Deposit(NewAmount(USD, d(100)))
	w.Deposit(NewAmount(USD, d(50)))
	w.Deposit(NewAmount(EUR, d(25)))

	if !w.Get(USD).Equal(d(150)) {
		t.Errorf("expected 150 USD, got %s", w.Get(USD))
	}
	if !w.Get(EUR).Equal(d(25)) {
		t.Errorf("expected 25 EUR, got %s", w.Get(EUR))
	}
	if !w.Get(JPY).IsZero() {
		t.Errorf("expected zero JPY, got %s", w.Get(JPY))
	}
}

func TestWallet_NeverHoldsZeroBalance(t *testing.T) {
	w := NewWallet(NewAmount(USD, d(100)))
	w.Withdraw(NewAmount(USD, d(100)))

	if _, ok := w[USD]; ok {
		t.Error("zero balance should remove the currency entry")
	}
	if !w.IsEmpty() {
		t.Errorf("wallet should be empty, holds %s", w)
	}
}

func TestWallet_ZeroDepositIgnored(t *testing.T) {
	w := NewWallet()
	w.Deposit(NewAmount(USD, decimal.Zero))
	if !w.IsEmpty() {
		t.Error("zero deposit should not create an entry")
	}
}

func TestWallet_WithdrawCanGoNegative(t *testing.T) {
	w := NewWallet()
	w.Withdraw(NewAmount(USD, d(40)))
	if !w.Get(USD).Equal(d(-40)) {
		t.Errorf("expected -40 USD, got %s", w.Get(USD))
	}
}

func TestWallet_Add(t *testing.T) {
	a := NewWallet(NewAmount(USD, d(100)), NewAmount(EUR, d(10)))
	b := NewWallet(NewAmount(USD, d(-100)), NewAmount(GBP, d(5)))
	a.Add(b)

	if _, ok := a[USD]; ok {
		t.Error("USD should cancel out to zero and be removed")
	}
	if !a.Get(EUR).Equal(d(10)) || !a.Get(GBP).Equal(d(5)) {
		t.Errorf("unexpected wallet after add: %s", a)
	}
}

func TestWallet_CloneIsIndependent(t *testing.T) {
	w := NewWallet(NewAmount(USD, d(100)))
	c := w.Clone()
	w.Deposit(NewAmount(USD, d(900)))

	if !c.Get(USD).Equal(d(100)) {
		t.Errorf("clone changed with original: %s", c.Get(USD))
	}
}

// --- ExchangeRates tests ---

func TestSingleCurrencyRates_Identity(t *testing.T) {
	r := SingleCurrencyRates{}
	v, err := r.Convert(NewAmount(USD, d(42)), USD, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(d(42)) {
		t.Errorf("expected 42, got %s", v)
	}
}

func TestSingleCurrencyRates_CrossCurrencyFails(t *testing.T) {
	r := SingleCurrencyRates{}
	_, err := r.Convert(NewAmount(EUR, d(42)), USD, time.Now())
	if !errors.Is(err, ErrNoRatePath) {
		t.Errorf("expected ErrNoRatePath, got %v", err)
	}
}

func TestTimeRates_NearestPrior(t *testing.T) {
	r := NewTimeRates()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.Add(24 * time.Hour)
	r.Register(EUR, USD, t0, d(1.10))
	r.Register(EUR, USD, t1, d(1.20))

	tests := []struct {
		at   time.Time
		want decimal.Decimal
	}{
		{t0, d(110)},                     // exact observation
		{t0.Add(12 * time.Hour), d(110)}, // between observations → prior
		{t1, d(120)},
		{t1.Add(time.Hour), d(120)}, // after the last → last
	}
	for _, tt := range tests {
		v, err := r.Convert(NewAmount(EUR, d(100)), USD, tt.at)
		if err != nil {
			t.Fatalf("unexpected error at %s: %v", tt.at, err)
		}
		if !v.Equal(tt.want) {
			t.Errorf("at %s: expected %s, got %s", tt.at, tt.want, v)
		}
	}
}

func TestTimeRates_BeforeFirstObservationFails(t *testing.T) {
	r := NewTimeRates()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.Register(EUR, USD, t0, d(1.10))

	_, err := r.Convert(NewAmount(EUR, d(100)), USD, t0.Add(-time.Second))
	if !errors.Is(err, ErrNoRatePath) {
		t.Errorf("expected ErrNoRatePath before first observation, got %v", err)
	}
}

func TestTimeRates_InversePairDerived(t *testing.T) {
	r := NewTimeRates()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.Register(EUR, USD, t0, d(1.25))

	v, err := r.Convert(NewAmount(USD, d(125)), EUR, t0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(d(100)) {
		t.Errorf("expected 100 EUR, got %s", v)
	}
}

func TestTimeRates_UnknownPairFails(t *testing.T) {
	r := NewTimeRates()
	_, err := r.Convert(NewAmount(GBP, d(1)), JPY, time.Now())
	if !errors.Is(err, ErrNoRatePath) {
		t.Errorf("expected ErrNoRatePath, got %v", err)
	}
}
