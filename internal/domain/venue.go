package domain

import "github.com/m04kA/VenueBookingService/pkg/types"

// Venue is the read-only pricing view of a venue from the catalog
type Venue struct {
	ID       int64
	Name     string
	Capacity int // 0 = unknown

	BasePrice     *int64           // flat fallback price
	ServicePrices map[string]int64 // service category -> base price
	PriceSlots    []PriceSlot
	Addons        []Addon
}

// PriceSlot is a time window with a surcharge stacked on top of the base price
type PriceSlot struct {
	Label string
	Start types.TimeString
	End   types.TimeString
	Price int64
}

// Contains reports whether [start, end] lies inside the slot window
func (s PriceSlot) Contains(start, end types.TimeString) bool {
	return types.Within(start, end, s.Start, s.End)
}

// Addon is an optional extra priced per booking
type Addon struct {
	Code  string
	Name  string
	Price int64
}

// ExceedsCapacity reports whether the guest count is above the venue capacity.
// Exceeding capacity is a warning, never a rejection.
func (v *Venue) ExceedsCapacity(guests int) bool {
	return v.Capacity > 0 && guests > v.Capacity
}

// Service is a bookable service/event type from the catalog
type Service struct {
	ID       int64
	Name     string
	Category string
	Price    int64
}
