// Package order defines the immutable trading instructions the engine
// accepts, their lifecycle statuses, and time-in-force policies.
//
// Sizes are signed: positive = buy, negative = sell. A size of zero is
// never valid. All quantities and prices use shopspring/decimal.
package order

// Status is the lifecycle state of an order. Transitions are monotonic:
// once a status is closed the order never reopens.
type Status string

const (
	Initial   Status = "INITIAL"
	Accepted  Status = "ACCEPTED"
	Completed Status = "COMPLETED"
	Cancelled Status = "CANCELLED"
	Rejected  Status = "REJECTED"
	Expired   Status = "EXPIRED"
)

// IsClosed reports whether the status is terminal.
func (s Status) IsClosed() bool {
	switch s {
	case Completed, Cancelled, Rejected, Expired:
		return true
	}
	return false
}

// IsOpen reports whether the order can still be driven by the engine.
func (s Status) IsOpen() bool {
	return !s.IsClosed()
}

// IsAborted reports whether the order closed without completing.
func (s Status) IsAborted() bool {
	switch s {
	case Cancelled, Rejected, Expired:
		return true
	}
	return false
}
