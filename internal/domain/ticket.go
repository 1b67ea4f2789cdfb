package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is one of the three defined values.
// There is no fallback: anything else is rejected at the boundary.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is a unit of trackable work. ID and CreatedAt are assigned at
// creation time and never change afterwards; edits replace the remaining
// fields in place.
type Ticket struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// TicketStats holds the derived status breakdown of the collection.
// Open + InProgress + Closed always equals Total.
type TicketStats struct {
	Total      int `json:"totalTickets"`
	Open       int `json:"openTickets"`
	InProgress int `json:"inProgress"`
	Closed     int `json:"closedTickets"`
}
