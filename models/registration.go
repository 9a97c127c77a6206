package models

import "time"

// RegistrationStatus mirrors the status enum in the database.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationApproved, RegistrationRejected:
		return true
	}
	return false
}

type Registration struct {
	ID               int                `json:"id" db:"id"`
	TournamentID     int                `json:"tournament_id" db:"tournament_id"`
	TeamID           int                `json:"team_id" db:"team_id"`
	Status           RegistrationStatus `json:"status" db:"status"`
	RegistrationDate time.Time          `json:"registration_date" db:"registration_date"`

	Team       *Team       `json:"team,omitempty" db:"-"`
	Tournament *Tournament `json:"tournament,omitempty" db:"-"`
}
