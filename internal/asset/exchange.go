package asset

import "time"

// Exchange is a trading venue calendar. Trading-day boundaries are
// evaluated in the exchange's local time zone; DAY orders expire when a
// tick crosses into a new local calendar date.
type Exchange struct {
	Name string
	loc  *time.Location
}

// Location returns the exchange time zone.
func (e Exchange) Location() *time.Location {
	if e.loc == nil {
		return time.UTC
	}
	return e.loc
}

// SameTradingDay reports whether a and b fall on the same calendar date
// in the exchange's local time.
func (e Exchange) SameTradingDay(a, b time.Time) bool {
	loc := e.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

var exchanges = map[string]Exchange{}

func init() {
	register("", Exchange{Name: "", loc: time.UTC}) // default: 24/7 UTC
	registerZone("NYSE", "America/New_York")
	registerZone("NASDAQ", "America/New_York")
	registerZone("LSE", "Europe/London")
	registerZone("TSE", "Asia/Tokyo")
}

func register(name string, e Exchange) {
	exchanges[name] = e
}

func registerZone(name, zone string) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		loc = time.UTC
	}
	register(name, Exchange{Name: name, loc: loc})
}

// Lookup returns the exchange calendar for a name, or the UTC default
// when the name is unknown.
func Lookup(name string) Exchange {
	if e, ok := exchanges[name]; ok {
		return e
	}
	return exchanges[""]
}
