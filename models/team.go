package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	CaptainID    int       `json:"captain_id" db:"captain_id"`
	CaptainPhone string    `json:"captain_phone" db:"captain_phone"`
	GameName     string    `json:"game_name" db:"game_name"`
	Points       int       `json:"points" db:"points"`
	Wins         int       `json:"wins" db:"wins"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Captain       *User          `json:"captain,omitempty" db:"-"`
	Players       []Player       `json:"players,omitempty" db:"-"`
	Registrations []Registration `json:"registrations,omitempty" db:"-"`
}
