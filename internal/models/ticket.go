package models

import "time"

type Schedule struct {
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime,omitempty"`
}

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Ticket struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	From              string     `json:"from"`
	To                string     `json:"to"`
	TransportType     string     `json:"transportType"`
	TravelClass       string     `json:"travelClass"`
	OperatorName      string     `json:"operatorName"`
	Schedule          []Schedule `json:"schedule"`
	Price             float64    `json:"price"`
	Currency          string     `json:"currency"`
	Quantity          int        `json:"quantity"`
	AvailableQuantity int        `json:"availableQuantity"`
	Perks             []string   `json:"perks,omitempty"`
	Rating            Rating     `json:"rating"`
	Image             *string    `json:"image,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// NextDeparture returns the earliest scheduled departure, or the zero
// time when the ticket carries no schedule.
func (t Ticket) NextDeparture() time.Time {
	var next time.Time
	for _, s := range t.Schedule {
		if next.IsZero() || s.DepartureTime.Before(next) {
			next = s.DepartureTime
		}
	}
	return next
}

func (t Ticket) SoldOut() bool {
	return t.AvailableQuantity <= 0
}
