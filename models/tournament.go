package models

import (
	"strings"
	"time"
)

// TournamentLocation is the venue tag a tournament is hosted at.
type TournamentLocation string

const (
	LocationPointA TournamentLocation = "point-a"
	LocationPointB TournamentLocation = "point-b"
)

func ParseTournamentLocation(raw string) (TournamentLocation, bool) {
	switch loc := TournamentLocation(strings.ToLower(strings.TrimSpace(raw))); loc {
	case LocationPointA, LocationPointB:
		return loc, true
	default:
		return "", false
	}
}

type Tournament struct {
	ID        int                `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	GameName  string             `json:"game_name" db:"game_name"`
	Location  TournamentLocation `json:"location" db:"location"`
	Date      time.Time          `json:"date" db:"date"`
	MaxTeams  int                `json:"max_teams" db:"max_teams"`
	Archived  bool               `json:"archived" db:"archived"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`

	Registrations []Registration `json:"registrations,omitempty" db:"-"`
}

// Active reports whether the tournament still accepts commitments:
// not archived and its date has not passed.
func (t Tournament) Active(now time.Time) bool {
	return !t.Archived && !t.Date.Before(now)
}
