package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
)

// BracketOrder is an entry order plus a dependent take-profit and
// stop-loss. The exits activate only after the entry completes, and
// together they close exactly the entry's size. Sub-orders are private
// to the bracket and must not be added to the engine separately.
type BracketOrder struct {
	OrderID    string
	Entry      SingleOrder
	TakeProfit SingleOrder
	StopLoss   SingleOrder
}

// NewBracketOrder creates a bracket from its three legs.
func NewBracketOrder(entry, takeProfit, stopLoss SingleOrder) BracketOrder {
	return BracketOrder{
		OrderID:    uuid.New().String(),
		Entry:      entry,
		TakeProfit: takeProfit,
		StopLoss:   stopLoss,
	}
}

// NewBracket builds a market-entry bracket with limit take-profit and
// trailing stop-loss, the common long/short bracket shape.
func NewBracket(a asset.Asset, size, takeProfitPrice, stopTrailPct decimal.Decimal) BracketOrder {
	exit := size.Neg()
	return NewBracketOrder(
		NewMarketOrder(a, size),
		NewLimitOrder(a, exit, takeProfitPrice),
		NewTrailOrder(a, exit, stopTrailPct),
	)
}

// ID implements Order.
func (o BracketOrder) ID() string { return o.OrderID }

// Validate implements Order.
func (o BracketOrder) Validate() error {
	for _, child := range []SingleOrder{o.Entry, o.TakeProfit, o.StopLoss} {
		if err := child.Validate(); err != nil {
			return err
		}
	}
	if o.TakeProfit.Asset != o.Entry.Asset || o.StopLoss.Asset != o.Entry.Asset {
		return fmt.Errorf("%w: bracket legs must share one asset", ErrMismatchedChildren)
	}
	exit := o.Entry.Size.Neg()
	if !o.TakeProfit.Size.Equal(exit) || !o.StopLoss.Size.Equal(exit) {
		return fmt.Errorf("%w: bracket exits must close the entry size", ErrMismatchedChildren)
	}
	return nil
}

// OCOOrder is one-cancels-other: two orders of which at most one ever
// fills. The first child to produce a fill becomes the sole active
// child; the sibling is abandoned without being cancelled at the market.
type OCOOrder struct {
	OrderID string
	First   SingleOrder
	Second  SingleOrder
}

// NewOCOOrder creates a one-cancels-other pair.
func NewOCOOrder(first, second SingleOrder) OCOOrder {
	return OCOOrder{OrderID: uuid.New().String(), First: first, Second: second}
}

// ID implements Order.
func (o OCOOrder) ID() string { return o.OrderID }

// Validate implements Order.
func (o OCOOrder) Validate() error {
	if err := o.First.Validate(); err != nil {
		return err
	}
	if err := o.Second.Validate(); err != nil {
		return err
	}
	// Both legs are priced off one asset's observations.
	if o.Second.Asset != o.First.Asset {
		return fmt.Errorf("%w: one-cancels-other legs must share one asset", ErrMismatchedChildren)
	}
	return nil
}

// OTOOrder is one-triggers-other: the secondary order starts being
// driven only once the primary completes. If the primary aborts the
// secondary never starts.
type OTOOrder struct {
	OrderID   string
	Primary   SingleOrder
	Secondary SingleOrder
}

// NewOTOOrder creates a one-triggers-other pair.
func NewOTOOrder(primary, secondary SingleOrder) OTOOrder {
	return OTOOrder{OrderID: uuid.New().String(), Primary: primary, Secondary: secondary}
}

// ID implements Order.
func (o OTOOrder) ID() string { return o.OrderID }

// Validate implements Order.
func (o OTOOrder) Validate() error {
	if err := o.Primary.Validate(); err != nil {
		return err
	}
	if err := o.Secondary.Validate(); err != nil {
		return err
	}
	// Both legs are priced off one asset's observations.
	if o.Secondary.Asset != o.Primary.Asset {
		return fmt.Errorf("%w: one-triggers-other legs must share one asset", ErrMismatchedChildren)
	}
	return nil
}

// UpdateOrder replaces the working order identified by Target with
// Replacement. The replacement must keep the original size. Update
// orders never produce fills.
type UpdateOrder struct {
	OrderID     string
	Target      string
	Replacement SingleOrder
}

// NewUpdateOrder creates an update instruction for an existing order.
func NewUpdateOrder(target string, replacement SingleOrder) UpdateOrder {
	return UpdateOrder{OrderID: uuid.New().String(), Target: target, Replacement: replacement}
}

// ID implements Order.
func (o UpdateOrder) ID() string { return o.OrderID }

// Validate implements Order.
func (o UpdateOrder) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("%w: update target required", ErrInvalidParam)
	}
	return o.Replacement.Validate()
}

// CancelOrder cancels the working order identified by Target.
type CancelOrder struct {
	OrderID string
	Target  string
}

// NewCancelOrder creates a cancel instruction for an existing order.
func NewCancelOrder(target string) CancelOrder {
	return CancelOrder{OrderID: uuid.New().String(), Target: target}
}

// ID implements Order.
func (o CancelOrder) ID() string { return o.OrderID }

// Validate implements Order.
func (o CancelOrder) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("%w: cancel target required", ErrInvalidParam)
	}
	return nil
}
