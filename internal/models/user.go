package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleStudent     UserRole = "student"
	RoleCoordinator UserRole = "coordinator"
	RoleAdmin       UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

// CoordinatorStatus gates coordinator accounts behind admin approval.
type CoordinatorStatus string

const (
	CoordinatorPending  CoordinatorStatus = "pending"
	CoordinatorApproved CoordinatorStatus = "approved"
	CoordinatorRejected CoordinatorStatus = "rejected"
)

// Valid reports whether s is a known coordinator status.
func (s CoordinatorStatus) Valid() bool {
	switch s {
	case CoordinatorPending, CoordinatorApproved, CoordinatorRejected:
		return true
	}
	return false
}

// User represents an application user. Email is case-insensitively unique
// within a role. Students carry profile fields and a generated LEO id,
// coordinators carry a password hash plus an approval status, admins carry
// a password hash only.
type User struct {
	ID           string            `db:"id" json:"id"`
	Email        string            `db:"email" json:"email"`
	Role         UserRole          `db:"role" json:"role"`
	Name         string            `db:"name" json:"name"`
	RollNo       string            `db:"roll_no" json:"rollNo,omitempty"`
	Phone        string            `db:"phone" json:"phone,omitempty"`
	LeoID        string            `db:"leo_id" json:"leoId,omitempty"`
	PasswordHash string            `db:"password_hash" json:"-"`
	Status       CoordinatorStatus `db:"status" json:"status,omitempty"`
	CreatedAt    time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updatedAt"`
}

// Approved reports whether the user may act as a coordinator.
func (u *User) Approved() bool {
	return u.Role == RoleCoordinator && u.Status == CoordinatorApproved
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
