package models

import "time"

// Assignment records that a coordinator staffs an event. The relation has no
// payload beyond existence; it stays in place after the event finishes so the
// coordinator's work history remains visible.
type Assignment struct {
	ID            string    `db:"id" json:"id"`
	CoordinatorID string    `db:"coordinator_id" json:"coordinatorId"`
	EventID       string    `db:"event_id" json:"eventId"`
	JoinedAt      time.Time `db:"joined_at" json:"joinedAt"`
}

// CoordinatorEvent joins an assignment with its event for the
// "my active work" listing.
type CoordinatorEvent struct {
	Assignment
	EventTitle  string      `db:"event_title" json:"eventTitle"`
	EventDate   string      `db:"event_date" json:"eventDate"`
	EventVenue  string      `db:"event_venue" json:"eventVenue"`
	EventStatus EventStatus `db:"event_status" json:"eventStatus"`
}
