package sim

import (
	"log/slog"
	"time"

	"github.com/quantsim/simbroker/internal/account"
	"github.com/quantsim/simbroker/internal/currency"
	"github.com/quantsim/simbroker/internal/feed"
	"github.com/quantsim/simbroker/internal/metrics"
	"github.com/quantsim/simbroker/internal/order"
)

// Broker simulates how a brokerage executes trading instructions
// against a stream of price events. It owns the execution engine and
// the internal account; external consumers only ever see frozen
// account snapshots.
//
// The broker is single-threaded: it is driven by one consumer loop and
// performs no internal locking. A run never aborts because one order
// was rejected or one tick had no price for some asset — only
// configuration errors abort.
type Broker struct {
	engine *ExecutionEngine
	acct   *account.InternalAccount
	model  account.AccountModel
}

// NewBroker creates a broker around an engine, an empty account in the
// given base currency, and an account model for buying power.
func NewBroker(engine *ExecutionEngine, base currency.Currency, model account.AccountModel) *Broker {
	return &Broker{
		engine: engine,
		acct:   account.NewInternalAccount(base),
		model:  model,
	}
}

// Deposit adds cash to the account, e.g. the initial funding.
func (b *Broker) Deposit(amount currency.Amount) {
	b.acct.Deposit(amount)
}

// PlaceOrders submits orders between ticks. They join the engine's open
// collections before the next tick is processed. Invalid orders and
// unregistered order variants are configuration errors and are
// returned immediately; no later order in the batch is placed.
func (b *Broker) PlaceOrders(t time.Time, orders ...order.Order) error {
	for _, o := range orders {
		if err := b.engine.Add(o); err != nil {
			return err
		}
		b.acct.RegisterOrder(o, t)
		metrics.OrdersPlaced.WithLabelValues(orderVariant(o)).Inc()
		slog.Info("order placed", "id", o.ID(), "variant", orderVariant(o))
	}
	return nil
}

// Process runs one market event through the engine and folds the
// resulting fills into the account: positions and cash first, then a
// mark-to-market pass for priced assets, then the account model's
// buying-power update. It returns the trades made this tick and a
// frozen account snapshot that is safe to share.
func (b *Broker) Process(ev feed.Event) (*account.Account, []account.Trade, error) {
	start := time.Now()

	execs := b.engine.Execute(ev)
	b.acct.LastUpdate = ev.Time

	trades := make([]account.Trade, 0, len(execs))
	for _, exec := range execs {
		trade := b.acct.ApplyExecution(exec)
		trades = append(trades, trade)

		side := "buy"
		if exec.Size.IsNegative() {
			side = "sell"
		}
		metrics.ExecutionsTotal.WithLabelValues(side).Inc()
		slog.Info("fill",
			"order", exec.OrderID,
			"asset", exec.Asset.Symbol,
			"size", exec.Size.String(),
			"price", exec.Price.String(),
			"pnl", trade.PnL.String(),
		)
	}

	for a, bar := range ev.Prices {
		b.acct.RefreshSpot(a, bar.Close, ev.Time)
	}

	b.syncOrderStates()

	if err := b.model.UpdateBuyingPower(b.acct); err != nil {
		return nil, nil, err
	}

	metrics.EventsProcessed.Inc()
	metrics.OpenOrders.Set(float64(len(b.acct.Orders)))
	metrics.EventLatency.Observe(time.Since(start).Seconds())

	return b.acct.Freeze(), trades, nil
}

// syncOrderStates mirrors executor statuses into the account's order
// bookkeeping.
func (b *Broker) syncOrderStates() {
	for id, status := range b.engine.Statuses() {
		if _, open := b.acct.Orders[id]; open && status.IsClosed() {
			metrics.OrdersClosed.WithLabelValues(string(status)).Inc()
		}
		b.acct.UpdateOrderStatus(id, status)
	}
}

// Compact drops closed executors from the engine's open collections.
// Kept out of the per-tick path; callers invoke it at whatever cadence
// suits them.
func (b *Broker) Compact() {
	b.engine.RemoveClosed()
}

// Reset clears all pending orders and the pricing model, leaving the
// registry and the account untouched.
func (b *Broker) Reset() {
	b.engine.Clear()
}

// ToAccount produces a frozen snapshot of the current account state.
func (b *Broker) ToAccount() *account.Account {
	return b.acct.Freeze()
}

func orderVariant(o order.Order) string {
	switch v := o.(type) {
	case order.SingleOrder:
		return string(v.Kind)
	case order.BracketOrder:
		return "BRACKET"
	case order.OCOOrder:
		return "OCO"
	case order.OTOOrder:
		return "OTO"
	case order.UpdateOrder:
		return "UPDATE"
	case order.CancelOrder:
		return "CANCEL"
	default:
		return "UNKNOWN"
	}
}
