package account

import (
	"testing"
	"time"

	"github.com/quantsim/simbroker/internal/currency"
	"github.com/quantsim/simbroker/internal/order"
)

func TestInternalAccount_ApplyExecution(t *testing.T) {
	a := testAsset()
	acct := NewInternalAccount(currency.USD)
	acct.Deposit(currency.NewAmount(currency.USD, d(10000)))
	now := time.Now()

	trade := acct.ApplyExecution(exec(a, 10, 100, now))
	if !trade.PnL.Value.IsZero() {
		t.Errorf("opening fill must realize nothing, got %s", trade.PnL)
	}
	if !acct.Cash.Get(currency.USD).Equal(d(9000)) {
		t.Errorf("expected cash 9000 after paying notional, got %s", acct.Cash.Get(currency.USD))
	}
	if len(acct.Trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(acct.Trades))
	}

	// Selling returns the proceeds.
	acct.ApplyExecution(exec(a, -10, 110, now))
	if !acct.Cash.Get(currency.USD).Equal(d(10100)) {
		t.Errorf("expected cash 10100 after the round trip, got %s", acct.Cash.Get(currency.USD))
	}
	if _, ok := acct.Portfolio[a]; ok {
		t.Error("closed position should be removed")
	}
}

func TestInternalAccount_OrderLifecycle(t *testing.T) {
	acct := NewInternalAccount(currency.USD)
	o := order.NewMarketOrder(testAsset(), d(10))
	now := time.Now()

	acct.RegisterOrder(o, now)
	if st, ok := acct.Orders[o.ID()]; !ok || st.Status != order.Initial {
		t.Fatal("registered order should be open with INITIAL status")
	}

	acct.UpdateOrderStatus(o.ID(), order.Accepted)
	if acct.Orders[o.ID()].Status != order.Accepted {
		t.Error("non-terminal status update should keep the order open")
	}

	acct.UpdateOrderStatus(o.ID(), order.Completed)
	if _, ok := acct.Orders[o.ID()]; ok {
		t.Error("terminal status must move the order out of the open set")
	}
	if len(acct.ClosedOrders) != 1 || acct.ClosedOrders[0].Status != order.Completed {
		t.Fatalf("expected one COMPLETED closed order, got %+v", acct.ClosedOrders)
	}

	// Unknown ids are ignored.
	acct.UpdateOrderStatus("nope", order.Cancelled)
	if len(acct.ClosedOrders) != 1 {
		t.Error("unknown order id must be a no-op")
	}
}

func TestFreeze_SnapshotIsImmutable(t *testing.T) {
	a := testAsset()
	acct := NewInternalAccount(currency.USD)
	acct.Deposit(currency.NewAmount(currency.USD, d(10000)))
	now := time.Now()
	acct.LastUpdate = now

	o := order.NewMarketOrder(a, d(10))
	acct.RegisterOrder(o, now)
	acct.ApplyExecution(exec(a, 10, 100, now))

	snap := acct.Freeze()

	// Mutate the internal account after the snapshot.
	acct.Deposit(currency.NewAmount(currency.USD, d(5000)))
	acct.ApplyExecution(exec(a, 5, 120, now))
	acct.UpdateOrderStatus(o.ID(), order.Completed)

	if !snap.Cash.Get(currency.USD).Equal(d(9000)) {
		t.Errorf("snapshot cash changed, got %s", snap.Cash.Get(currency.USD))
	}
	if pos, ok := snap.Position(a); !ok || !pos.Size.Equal(d(10)) {
		t.Errorf("snapshot position changed, got %+v", pos)
	}
	if len(snap.Trades) != 1 {
		t.Errorf("snapshot trades changed, got %d", len(snap.Trades))
	}
	if len(snap.OpenOrders) != 1 || snap.OpenOrders[0].Status != order.Initial {
		t.Errorf("snapshot open orders changed, got %+v", snap.OpenOrders)
	}
	if len(snap.ClosedOrders) != 0 {
		t.Error("snapshot closed orders changed")
	}
}

func TestAccount_Equity(t *testing.T) {
	a := testAsset()
	acct := NewInternalAccount(currency.USD)
	acct.Deposit(currency.NewAmount(currency.USD, d(10000)))
	now := time.Now()
	acct.LastUpdate = now

	acct.ApplyExecution(exec(a, 10, 100, now))
	acct.RefreshSpot(a, d(105), now)

	snap := acct.Freeze()
	eq, err := snap.Equity(currency.SingleCurrencyRates{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 9000 cash + 10 × 105 position value.
	if !eq.Equal(d(10050)) {
		t.Errorf("expected equity 10050, got %s", eq)
	}

	if u := snap.UnrealizedPnL(); !u.Get(currency.USD).Equal(d(50)) {
		t.Errorf("expected unrealized 50, got %s", u.Get(currency.USD))
	}
}

func TestAccount_EquityAcrossCurrencies(t *testing.T) {
	acct := NewInternalAccount(currency.USD)
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	acct.LastUpdate = now
	acct.Deposit(currency.NewAmount(currency.USD, d(1000)))
	acct.Deposit(currency.NewAmount(currency.EUR, d(500)))

	rates := currency.NewTimeRates()
	rates.Register(currency.EUR, currency.USD, now.AddDate(0, 0, -1), d(1.2))

	snap := acct.Freeze()
	eq, err := snap.Equity(rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !eq.Equal(d(1600)) {
		t.Errorf("expected equity 1600, got %s", eq)
	}
}
