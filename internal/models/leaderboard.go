package models

import "time"

// LeaderboardEntry is a participant's score within one event. One entry per
// (event, participant) pair; setting a score again overwrites it. Position
// preserves first-insertion order so ties rank stably.
type LeaderboardEntry struct {
	EventID       string    `db:"event_id" json:"eventId"`
	ParticipantID string    `db:"participant_id" json:"participantId"`
	Name          string    `db:"name" json:"name"`
	LeoID         string    `db:"leo_id" json:"leoId"`
	RollNo        string    `db:"roll_no" json:"rollNo,omitempty"`
	Score         float64   `db:"score" json:"score"`
	Position      int64     `db:"position" json:"-"`
	EnteredBy     string    `db:"entered_by" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}

// RankedEntry decorates a leaderboard entry with its 1-based rank.
type RankedEntry struct {
	LeaderboardEntry
	Rank int `json:"rank"`
}

// Winner is one of the up to three participants frozen at completion time.
type Winner struct {
	EventID       string `db:"event_id" json:"eventId"`
	Place         int    `db:"place" json:"place"`
	ParticipantID string `db:"participant_id" json:"participantId"`
}

// MaxWinners caps the winner list recorded at event completion.
const MaxWinners = 3
