// Package currency provides multi-currency amounts, wallets, and
// time-aware exchange-rate conversion for the simulated brokerage.
//
// All monetary values use shopspring/decimal — never float64 for money.
package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO-4217 style currency code, e.g. "USD", "EUR".
type Currency string

// Common currencies used throughout the engine and its tests.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
)

// Amount is a monetary value denominated in a single currency.
type Amount struct {
	Currency Currency        `json:"currency"`
	Value    decimal.Decimal `json:"value"`
}

// NewAmount creates an Amount.
func NewAmount(c Currency, v decimal.Decimal) Amount {
	return Amount{Currency: c, Value: v}
}

// Add returns a + v keeping the currency. Both amounts must share the
// same currency; mixing currencies is a programming error and panics.
func (a Amount) Add(v Amount) Amount {
	if a.Currency != v.Currency {
		panic(fmt.Sprintf("currency: cannot add %s to %s", v.Currency, a.Currency))
	}
	return Amount{Currency: a.Currency, Value: a.Value.Add(v.Value)}
}

// String renders the amount as "123.45 USD".
func (a Amount) String() string {
	return a.Value.StringFixed(2) + " " + string(a.Currency)
}

// Wallet is a set of balances, one per currency. A wallet never holds a
// zero-balance entry: deposits and withdrawals that net a currency to
// zero remove the key entirely.
type Wallet map[Currency]decimal.Decimal

// NewWallet creates a wallet holding the given amounts.
func NewWallet(amounts ...Amount) Wallet {
	w := make(Wallet, len(amounts))
	for _, a := range amounts {
		w.Deposit(a)
	}
	return w
}

// Deposit adds the amount to the wallet, removing the entry if the
// resulting balance is zero.
func (w Wallet) Deposit(a Amount) {
	if a.Value.IsZero() {
		return
	}
	total := w[a.Currency].Add(a.Value)
	if total.IsZero() {
		delete(w, a.Currency)
		return
	}
	w[a.Currency] = total
}

// Withdraw removes the amount from the wallet. Balances may go negative;
// enforcing solvency is the account model's concern, not the wallet's.
func (w Wallet) Withdraw(a Amount) {
	w.Deposit(Amount{Currency: a.Currency, Value: a.Value.Neg()})
}

// Add merges another wallet into this one.
func (w Wallet) Add(other Wallet) {
	for c, v := range other {
		w.Deposit(Amount{Currency: c, Value: v})
	}
}

// Get returns the balance for a currency (zero if absent).
func (w Wallet) Get(c Currency) decimal.Decimal {
	return w[c]
}

// Currencies returns the currencies held, sorted for deterministic output.
func (w Wallet) Currencies() []Currency {
	out := make([]Currency, 0, len(w))
	for c := range w {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns an independent copy of the wallet.
func (w Wallet) Clone() Wallet {
	out := make(Wallet, len(w))
	for c, v := range w {
		out[c] = v
	}
	return out
}

// IsEmpty reports whether the wallet holds no balances at all.
func (w Wallet) IsEmpty() bool {
	return len(w) == 0
}

// String renders the wallet as "100.00 USD + 25.50 EUR".
func (w Wallet) String() string {
	parts := make([]string, 0, len(w))
	for _, c := range w.Currencies() {
		parts = append(parts, Amount{Currency: c, Value: w[c]}.String())
	}
	return strings.Join(parts, " + ")
}
