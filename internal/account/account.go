package account

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
	"github.com/quantsim/simbroker/internal/currency"
	"github.com/quantsim/simbroker/internal/order"
)

// Trade records one fill together with the PnL it realized.
type Trade struct {
	Execution order.Execution `json:"execution"`
	PnL       currency.Amount `json:"pnl"`
}

// InternalAccount is the broker-private mutable working state. It is
// mutated exclusively by the owning broker and never shared outside it;
// external consumers only ever see the frozen Account produced by
// Freeze.
type InternalAccount struct {
	BaseCurrency currency.Currency
	LastUpdate   time.Time
	Cash         currency.Wallet
	BuyingPower  currency.Amount

	Orders       map[string]*order.State // open orders by id
	ClosedOrders []order.State
	Trades       []Trade
	Portfolio    Portfolio
}

// NewInternalAccount creates an empty account in the given base currency.
func NewInternalAccount(base currency.Currency) *InternalAccount {
	return &InternalAccount{
		BaseCurrency: base,
		Cash:         currency.NewWallet(),
		BuyingPower:  currency.NewAmount(base, decimal.Zero),
		Orders:       make(map[string]*order.State),
		Portfolio:    make(Portfolio),
	}
}

// Deposit adds cash to the account.
func (a *InternalAccount) Deposit(amount currency.Amount) {
	a.Cash.Deposit(amount)
}

// RegisterOrder records a newly placed order as open.
func (a *InternalAccount) RegisterOrder(o order.Order, t time.Time) {
	a.Orders[o.ID()] = &order.State{Order: o, ID: o.ID(), Status: order.Initial, OpenedAt: t}
}

// UpdateOrderStatus moves an open order to the given status; terminal
// statuses move the record to the closed list. Unknown ids are ignored
// (the order may already be closed).
func (a *InternalAccount) UpdateOrderStatus(id string, status order.Status) {
	st, ok := a.Orders[id]
	if !ok {
		return
	}
	st.Status = status
	if status.IsClosed() {
		a.ClosedOrders = append(a.ClosedOrders, *st)
		delete(a.Orders, id)
	}
}

// ApplyExecution folds a fill into the portfolio and cash wallet and
// appends the trade record. The wallet pays (or receives) the fill's
// notional value in the asset's currency.
func (a *InternalAccount) ApplyExecution(exec order.Execution) Trade {
	cost := exec.Asset.Value(exec.Size, exec.Price)
	a.Cash.Withdraw(cost)

	pnl := a.Portfolio.Update(exec)
	trade := Trade{Execution: exec, PnL: pnl}
	a.Trades = append(a.Trades, trade)
	return trade
}

// RefreshSpot marks an open position to the latest observed price.
func (a *InternalAccount) RefreshSpot(as asset.Asset, spot decimal.Decimal, t time.Time) {
	a.Portfolio.MarkToMarket(as, spot, t)
}

// Freeze produces the immutable snapshot handed to external consumers.
// Every collection is deep-copied or re-sliced so later mutation of the
// internal account cannot retroactively change a published snapshot.
func (a *InternalAccount) Freeze() *Account {
	open := make([]order.State, 0, len(a.Orders))
	for _, st := range a.Orders {
		open = append(open, *st)
	}

	closed := make([]order.State, len(a.ClosedOrders))
	copy(closed, a.ClosedOrders)

	trades := make([]Trade, len(a.Trades))
	copy(trades, a.Trades)

	positions := make(map[asset.Asset]Position, len(a.Portfolio))
	for as, p := range a.Portfolio {
		positions[as] = *p
	}

	return &Account{
		BaseCurrency: a.BaseCurrency,
		LastUpdate:   a.LastUpdate,
		Cash:         a.Cash.Clone(),
		BuyingPower:  a.BuyingPower,
		OpenOrders:   open,
		ClosedOrders: closed,
		Trades:       trades,
		Positions:    positions,
	}
}

// Account is the frozen, read-only account snapshot. By construction it
// never changes after creation, so it is safe to hand to concurrent
// readers (strategies, policies, metric collectors) without locking.
type Account struct {
	BaseCurrency currency.Currency        `json:"base_currency"`
	LastUpdate   time.Time                `json:"last_update"`
	Cash         currency.Wallet          `json:"cash"`
	BuyingPower  currency.Amount          `json:"buying_power"`
	OpenOrders   []order.State            `json:"open_orders"`
	ClosedOrders []order.State            `json:"closed_orders"`
	Trades       []Trade                  `json:"trades"`
	Positions    map[asset.Asset]Position `json:"-"`
}

// Position returns the snapshot position for an asset, if any.
func (a *Account) Position(as asset.Asset) (Position, bool) {
	p, ok := a.Positions[as]
	return p, ok
}

// UnrealizedPnL sums unrealized PnL across positions, per currency.
func (a *Account) UnrealizedPnL() currency.Wallet {
	w := currency.NewWallet()
	for _, p := range a.Positions {
		w.Deposit(p.UnrealizedPnL())
	}
	return w
}

// EquityWallet is cash plus the market value of all positions, kept per
// currency.
func (a *Account) EquityWallet() currency.Wallet {
	w := a.Cash.Clone()
	for _, p := range a.Positions {
		w.Deposit(p.MarketValue())
	}
	return w
}

// Equity converts the equity wallet to the base currency at the
// snapshot time.
func (a *Account) Equity(rates currency.ExchangeRates) (decimal.Decimal, error) {
	return convertWallet(a.EquityWallet(), a.BaseCurrency, rates, a.LastUpdate)
}

func convertWallet(w currency.Wallet, to currency.Currency, rates currency.ExchangeRates, t time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range w.Currencies() {
		v, err := rates.Convert(currency.NewAmount(c, w.Get(c)), to, t)
		if err != nil {
			return decimal.Decimal{}, err
		}
		total = total.Add(v)
	}
	return total, nil
}
