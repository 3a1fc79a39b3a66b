package domain

import (
	"encoding/json"
	"time"
)

// Item is a catalog entry. Properties is an opaque JSON document owned by the store.
type Item struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Properties json.RawMessage `json:"properties"`
}

// ItemFilter narrows item listings. A nil field applies no filter.
type ItemFilter struct {
	// Name is matched as a case-insensitive substring of the item name.
	Name *string
	// Category is matched exactly against the item's categories.
	Category *string
}

// LotStatus is the lifecycle state of a sale lot.
type LotStatus string

// Lot statuses. Only active lots are surfaced by the catalog.
const (
	LotStatusActive   LotStatus = "ACTIVE"
	LotStatusSold     LotStatus = "SOLD"
	LotStatusCanceled LotStatus = "CANCELED"
	LotStatusExpired  LotStatus = "EXPIRED"
)

// Lot is an offer to sell an item.
type Lot struct {
	ID           int64     `json:"lot_id" db:"id"`
	Seller       string    `json:"vendor" db:"seller"`
	CurrentPrice int64     `json:"cost_current" db:"current_price"`
	BuyoutPrice  int64     `json:"cost_buy" db:"buyout_price"`
	StartsAt     time.Time `json:"-" db:"-"`
	EndsAt       time.Time `json:"time_end" db:"ends_at"`
	Status       LotStatus `json:"-" db:"-"`
}

// Dependency is one node of an item's recursive component expansion.
// Level is the distance from the root item.
type Dependency struct {
	Name  string `json:"name" db:"name"`
	ID    int64  `json:"id" db:"id"`
	Level int64  `json:"level" db:"level"`
}

// OpenOn reports whether the lot was listed at some point of the given calendar day.
func (l Lot) OpenOn(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(truncateDay(l.StartsAt)) && !d.After(truncateDay(l.EndsAt))
}

// DailyPriceSample aggregates the lots of one item for a single calendar day.
// Quantity is the number of lots open that day and MaxBuyoutPrice the highest
// buy-out price among them (zero when none were open).
type DailyPriceSample struct {
	Day            time.Time `json:"day" db:"day"`
	MaxBuyoutPrice int64     `json:"max_cost_buy" db:"max_cost_buy"`
	Quantity       int64     `json:"quantity" db:"quantity"`
}

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// Inverted reports whether the end date precedes the start date.
func (p Period) Inverted() bool {
	return truncateDay(p.End).Before(truncateDay(p.Start))
}

// Days returns every calendar day of the period in order, normalized to UTC midnight.
// An inverted period has no days.
func (p Period) Days() []time.Time {
	if p.Inverted() {
		return nil
	}
	start, end := truncateDay(p.Start), truncateDay(p.End)

	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
