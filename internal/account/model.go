package account

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/currency"
)

// ErrInvalidMargin is returned when a margin ratio lies outside [0,1]
// or a leverage factor is below 1.
var ErrInvalidMargin = errors.New("account: margin ratio must lie in [0,1]")

// AccountModel computes an account's buying power after each processed
// event and writes it back. No other account field may be mutated.
type AccountModel interface {
	UpdateBuyingPower(a *InternalAccount) error
}

// CashAccountModel models a plain cash account: buying power is the
// cash converted to the base currency minus a configured minimum
// balance. Cash accounts do not support shorting; a short position only
// logs a warning, it never aborts the run.
type CashAccountModel struct {
	MinimumBalance decimal.Decimal
	rates          currency.ExchangeRates
}

// NewCashAccountModel creates a cash model with the given minimum
// balance kept out of buying power.
func NewCashAccountModel(minimumBalance decimal.Decimal, rates currency.ExchangeRates) *CashAccountModel {
	return &CashAccountModel{MinimumBalance: minimumBalance, rates: rates}
}

// UpdateBuyingPower implements AccountModel.
func (m *CashAccountModel) UpdateBuyingPower(a *InternalAccount) error {
	for _, p := range a.Portfolio {
		if p.IsShort() {
			slog.Warn("short position in cash account",
				"asset", p.Asset.Symbol,
				"size", p.Size.String(),
			)
		}
	}

	cash, err := convertWallet(a.Cash, a.BaseCurrency, m.rates, a.LastUpdate)
	if err != nil {
		return err
	}
	a.BuyingPower = currency.NewAmount(a.BaseCurrency, cash.Sub(m.MinimumBalance))
	return nil
}

// MarginAccountModel models a margin account:
//
//	excess = (cash + position value) − minimumEquity
//	       − longExposure × maintenanceLong − shortExposure × maintenanceShort
//	buying power = excess × (1 / initialMargin)
//
// with every term converted to the base currency first.
type MarginAccountModel struct {
	InitialMargin    decimal.Decimal
	MaintenanceLong  decimal.Decimal
	MaintenanceShort decimal.Decimal
	MinimumEquity    decimal.Decimal
	rates            currency.ExchangeRates
}

// NewMarginAccountModel creates a margin model. All three ratios must
// lie in [0,1] and the initial margin must be positive.
func NewMarginAccountModel(initial, maintenanceLong, maintenanceShort, minimumEquity decimal.Decimal, rates currency.ExchangeRates) (*MarginAccountModel, error) {
	one := decimal.NewFromInt(1)
	for _, r := range []decimal.Decimal{initial, maintenanceLong, maintenanceShort} {
		if r.IsNegative() || r.GreaterThan(one) {
			return nil, fmt.Errorf("%w: got %s", ErrInvalidMargin, r)
		}
	}
	if !initial.IsPositive() {
		return nil, fmt.Errorf("%w: initial margin must be positive", ErrInvalidMargin)
	}
	return &MarginAccountModel{
		InitialMargin:    initial,
		MaintenanceLong:  maintenanceLong,
		MaintenanceShort: maintenanceShort,
		MinimumEquity:    minimumEquity,
		rates:            rates,
	}, nil
}

// NewMarginAccountModelFromLeverage derives all three ratios from one
// leverage factor: ratio = 1/leverage.
func NewMarginAccountModelFromLeverage(leverage decimal.Decimal, rates currency.ExchangeRates) (*MarginAccountModel, error) {
	if leverage.LessThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: leverage must be at least 1", ErrInvalidMargin)
	}
	ratio := decimal.NewFromInt(1).Div(leverage)
	return NewMarginAccountModel(ratio, ratio, ratio, decimal.Zero, rates)
}

// UpdateBuyingPower implements AccountModel.
func (m *MarginAccountModel) UpdateBuyingPower(a *InternalAccount) error {
	t := a.LastUpdate
	base := a.BaseCurrency

	equity, err := convertWallet(a.Cash, base, m.rates, t)
	if err != nil {
		return err
	}

	longExposure := decimal.Zero
	shortExposure := decimal.Zero
	for _, p := range a.Portfolio {
		value, err := m.rates.Convert(p.MarketValue(), base, t)
		if err != nil {
			return err
		}
		equity = equity.Add(value)

		exposure, err := m.rates.Convert(p.Exposure(), base, t)
		if err != nil {
			return err
		}
		if p.IsLong() {
			longExposure = longExposure.Add(exposure)
		} else {
			shortExposure = shortExposure.Add(exposure)
		}
	}

	excess := equity.
		Sub(m.MinimumEquity).
		Sub(longExposure.Mul(m.MaintenanceLong)).
		Sub(shortExposure.Mul(m.MaintenanceShort))

	a.BuyingPower = currency.NewAmount(base, excess.Div(m.InitialMargin))
	return nil
}
