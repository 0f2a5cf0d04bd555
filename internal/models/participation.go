package models

import "time"

// PaymentType is the self-reported payment tag chosen by the student at
// registration time. Not a verified transaction. The literal values are
// preserved end to end for report collaborators.
type PaymentType string

const (
	PayViaCash PaymentType = "pay_via_cash"
	PayViaUPI  PaymentType = "pay_via_upi"
	PayViaBand PaymentType = "pay_via_band"
)

// Valid reports whether t is a known payment tag.
func (t PaymentType) Valid() bool {
	switch t {
	case PayViaCash, PayViaUPI, PayViaBand:
		return true
	}
	return false
}

// Participation is a student's registration record for one event.
// At most one row exists per (event, student) pair.
type Participation struct {
	ID            string      `db:"id" json:"id"`
	EventID       string      `db:"event_id" json:"eventId"`
	StudentID     string      `db:"student_id" json:"studentId"`
	Name          string      `db:"name" json:"name"`
	LeoID         string      `db:"leo_id" json:"leoId"`
	RollNo        string      `db:"roll_no" json:"rollNo,omitempty"`
	PaymentType   PaymentType `db:"payment_type" json:"paymentType"`
	PaymentStatus string      `db:"payment_status" json:"paymentStatus,omitempty"`
	Arrived       bool        `db:"arrived" json:"arrived"`
	RegisteredAt  time.Time   `db:"registered_at" json:"registeredAt"`
}
