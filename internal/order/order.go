package order

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
)

var (
	// ErrZeroSize is returned when an order's size is zero.
	ErrZeroSize = errors.New("order: size cannot be zero")

	// ErrInvalidParam is returned when a kind-specific parameter is
	// missing or out of range (limit/stop not positive, trail not in (0,1)).
	ErrInvalidParam = errors.New("order: invalid order parameter")

	// ErrMismatchedChildren is returned when a composite order's
	// sub-orders do not fit together (different assets, wrong sizes).
	ErrMismatchedChildren = errors.New("order: composite sub-orders do not match")
)

// Order is an immutable trading instruction. The concrete variants form
// a closed set: SingleOrder, BracketOrder, OCOOrder, OTOOrder,
// UpdateOrder and CancelOrder.
type Order interface {
	// ID returns the unique order id.
	ID() string

	// Validate reports whether the instruction is well formed.
	Validate() error
}

// Kind discriminates the single-order variants.
type Kind string

const (
	Market     Kind = "MARKET"
	Limit      Kind = "LIMIT"
	Stop       Kind = "STOP"
	StopLimit  Kind = "STOP_LIMIT"
	Trail      Kind = "TRAIL"
	TrailLimit Kind = "TRAIL_LIMIT"
)

// SingleOrder is a directly priced instruction for one asset. Which of
// the parameter fields are meaningful depends on Kind.
type SingleOrder struct {
	OrderID string
	Asset   asset.Asset
	Size    decimal.Decimal // signed: positive = buy, negative = sell
	Kind    Kind
	TIF     TimeInForce

	LimitPrice decimal.Decimal // Limit, StopLimit, TrailLimit
	StopPrice  decimal.Decimal // Stop, StopLimit
	TrailPct   decimal.Decimal // Trail, TrailLimit: fraction in (0,1)
}

func newSingle(a asset.Asset, size decimal.Decimal, kind Kind) SingleOrder {
	return SingleOrder{
		OrderID: uuid.New().String(),
		Asset:   a,
		Size:    size,
		Kind:    kind,
		TIF:     NewGTC(),
	}
}

// NewMarketOrder creates a market order.
func NewMarketOrder(a asset.Asset, size decimal.Decimal) SingleOrder {
	return newSingle(a, size, Market)
}

// NewLimitOrder creates a limit order.
func NewLimitOrder(a asset.Asset, size, limit decimal.Decimal) SingleOrder {
	o := newSingle(a, size, Limit)
	o.LimitPrice = limit
	return o
}

// NewStopOrder creates a stop order.
func NewStopOrder(a asset.Asset, size, stop decimal.Decimal) SingleOrder {
	o := newSingle(a, size, Stop)
	o.StopPrice = stop
	return o
}

// NewStopLimitOrder creates a stop-limit order.
func NewStopLimitOrder(a asset.Asset, size, stop, limit decimal.Decimal) SingleOrder {
	o := newSingle(a, size, StopLimit)
	o.StopPrice = stop
	o.LimitPrice = limit
	return o
}

// NewTrailOrder creates a trailing-stop order. trailPct is the fraction
// the stop trails behind the best observed price, e.g. 0.05 for 5%.
func NewTrailOrder(a asset.Asset, size, trailPct decimal.Decimal) SingleOrder {
	o := newSingle(a, size, Trail)
	o.TrailPct = trailPct
	return o
}

// NewTrailLimitOrder creates a trailing-stop-limit order. limitOffset is
// added to the triggered stop level to form the limit price.
func NewTrailLimitOrder(a asset.Asset, size, trailPct, limitOffset decimal.Decimal) SingleOrder {
	o := newSingle(a, size, TrailLimit)
	o.TrailPct = trailPct
	o.LimitPrice = limitOffset
	return o
}

// WithTIF returns a copy of the order carrying the given time-in-force.
func (o SingleOrder) WithTIF(tif TimeInForce) SingleOrder {
	o.TIF = tif
	return o
}

// ID implements Order.
func (o SingleOrder) ID() string { return o.OrderID }

// IsBuy reports whether the order is a buy (positive size).
func (o SingleOrder) IsBuy() bool { return o.Size.IsPositive() }

// IsSell reports whether the order is a sell (negative size).
func (o SingleOrder) IsSell() bool { return o.Size.IsNegative() }

// Validate implements Order.
func (o SingleOrder) Validate() error {
	if err := o.Asset.Validate(); err != nil {
		return err
	}
	if o.Size.IsZero() {
		return ErrZeroSize
	}
	switch o.Kind {
	case Market:
	case Limit:
		if !o.LimitPrice.IsPositive() {
			return fmt.Errorf("%w: limit price must be positive", ErrInvalidParam)
		}
	case Stop:
		if !o.StopPrice.IsPositive() {
			return fmt.Errorf("%w: stop price must be positive", ErrInvalidParam)
		}
	case StopLimit:
		if !o.StopPrice.IsPositive() || !o.LimitPrice.IsPositive() {
			return fmt.Errorf("%w: stop and limit prices must be positive", ErrInvalidParam)
		}
	case Trail, TrailLimit:
		one := decimal.NewFromInt(1)
		if !o.TrailPct.IsPositive() || o.TrailPct.GreaterThanOrEqual(one) {
			return fmt.Errorf("%w: trail percentage must be in (0,1)", ErrInvalidParam)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidParam, o.Kind)
	}
	return nil
}

func (o SingleOrder) String() string {
	return fmt.Sprintf("%s %s %s %s", o.Kind, o.Asset.Symbol, o.Size, o.TIF)
}
