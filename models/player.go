package models

import "time"

type Player struct {
	ID       int       `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	TeamID   int       `json:"team_id" db:"team_id"`
	JoinDate time.Time `json:"join_date" db:"join_date"`

	AvatarKey *string `json:"-" db:"avatar_key"`
	AvatarURL *string `json:"avatar_url,omitempty" db:"-"`
}
