package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsim/simbroker/internal/asset"
)

// Execution is an immutable fill fact. Once created it is never
// modified. The magnitude of the filled size never exceeds the order's
// remaining size at the moment of the fill.
type Execution struct {
	OrderID string          `json:"order_id"`
	Asset   asset.Asset     `json:"asset"`
	Size    decimal.Decimal `json:"size"` // signed, same convention as orders
	Price   decimal.Decimal `json:"price"`
	Time    time.Time       `json:"time"`
}

// State is the bookkeeping record an account keeps per order: the
// instruction itself plus its lifecycle status and open time.
type State struct {
	Order    Order     `json:"-"`
	ID       string    `json:"id"`
	Status   Status    `json:"status"`
	OpenedAt time.Time `json:"opened_at"`
}
