package models

import "time"

// EventStatus enumerates the event lifecycle states. The literal tag strings
// are part of the wire contract, report and UI collaborators branch on them
// verbatim.
type EventStatus string

const (
	EventStatusOpen      EventStatus = "open"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusClosed    EventStatus = "closed"
)

// DefaultEventCost applies when an event is created without a cost.
const DefaultEventCost = 10

// eventTransitions is the centralized transition table. completed and closed
// are terminal. Completion is legal straight from open as well as from
// ongoing, closing is legal from either non-terminal state.
var eventTransitions = map[EventStatus]map[EventStatus]struct{}{
	EventStatusOpen: {
		EventStatusOngoing:   {},
		EventStatusCompleted: {},
		EventStatusClosed:    {},
	},
	EventStatusOngoing: {
		EventStatusCompleted: {},
		EventStatusClosed:    {},
	},
}

// Valid reports whether s is a known lifecycle state.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusOpen, EventStatusOngoing, EventStatusCompleted, EventStatusClosed:
		return true
	}
	return false
}

// Active reports whether the event still accepts coordinator work,
// i.e. it counts toward the coordinator capacity bound.
func (s EventStatus) Active() bool {
	return s == EventStatusOpen || s == EventStatusOngoing
}

// CanTransition reports whether the state machine allows moving to target.
func (s EventStatus) CanTransition(target EventStatus) bool {
	allowed, ok := eventTransitions[s]
	if !ok {
		return false
	}
	_, ok = allowed[target]
	return ok
}

// Event represents a schedulable festival activity.
type Event struct {
	ID          string      `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	Date        string      `db:"date" json:"date"`
	Time        string      `db:"time" json:"time"`
	Venue       string      `db:"venue" json:"venue"`
	Category    string      `db:"category" json:"category"`
	Cost        int         `db:"cost" json:"cost"`
	Rules       string      `db:"rules" json:"rules"`
	TeamSize    string      `db:"team_size" json:"teamSize"`
	Status      EventStatus `db:"status" json:"status"`
	Deleted     bool        `db:"deleted" json:"-"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// EventFilter captures listing criteria for events.
type EventFilter struct {
	Status   *EventStatus
	Category string
	Search   string
}
