package order

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
)

// TimeInForce decides how long an order stays eligible to fill.
//
// The engine evaluates Expired on every tick after the fill attempt:
// remaining is the unfilled size left after that attempt. When a policy
// expires the order, the tick's fill is suppressed as well.
type TimeInForce interface {
	Expired(ex asset.Exchange, openedAt, now time.Time, remaining decimal.Decimal) bool
	fmt.Stringer
}

// GTC keeps an order working until filled, capped at Days calendar days
// after it opened.
type GTC struct {
	Days int
}

// DefaultGTCDays caps how long a good-till-cancelled order stays open.
const DefaultGTCDays = 90

// NewGTC returns a GTC policy with the default cap.
func NewGTC() GTC { return GTC{Days: DefaultGTCDays} }

func (g GTC) Expired(_ asset.Exchange, openedAt, now time.Time, _ decimal.Decimal) bool {
	days := g.Days
	if days <= 0 {
		days = DefaultGTCDays
	}
	return now.After(openedAt.AddDate(0, 0, days))
}

func (g GTC) String() string { return "GTC" }

// DAY keeps an order working for the exchange trading day it opened on.
type DAY struct{}

func (DAY) Expired(ex asset.Exchange, openedAt, now time.Time, _ decimal.Decimal) bool {
	return !ex.SameTradingDay(openedAt, now)
}

func (DAY) String() string { return "DAY" }

// FOK (fill-or-kill) expires unless the order fills completely on the
// same tick it is first driven.
type FOK struct{}

func (FOK) Expired(_ asset.Exchange, _, _ time.Time, remaining decimal.Decimal) bool {
	return !remaining.IsZero()
}

func (FOK) String() string { return "FOK" }

// GTD keeps an order working until an explicit date.
type GTD struct {
	Date time.Time
}

func (g GTD) Expired(_ asset.Exchange, _, now time.Time, _ decimal.Decimal) bool {
	return now.After(g.Date)
}

func (g GTD) String() string { return "GTD(" + g.Date.Format("2006-01-02") + ")" }

// IOC (immediate-or-cancel) allows fills only on the opening tick; any
// later tick expires the remainder.
type IOC struct{}

func (IOC) Expired(_ asset.Exchange, openedAt, now time.Time, _ decimal.Decimal) bool {
	return now.After(openedAt)
}

func (IOC) String() string { return "IOC" }
