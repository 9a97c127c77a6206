package services

import (
	"strings"
	"time"

	"github.com/Dias09/esports-hub/models"
)

// CanRegister decides whether a team may register for a tournament. It is a
// pure predicate over already-loaded data: existing must contain the team's
// registrations with their tournaments attached. Rules are checked in order
// and the first failure wins; a nil result means the caller may create the
// pending registration.
func CanRegister(team *models.Team, tournament *models.Tournament, existing []models.Registration, now time.Time) error {
	if tournament == nil || tournament.Archived {
		return ErrTournamentUnavailable
	}

	if !strings.EqualFold(team.GameName, tournament.GameName) {
		return ErrGameMismatch
	}

	for _, reg := range existing {
		if reg.TournamentID == tournament.ID {
			return ErrAlreadyRegistered
		}
	}

	// One active commitment at a time: an approved registration for another
	// tournament that is still active blocks a new one.
	for _, reg := range existing {
		if reg.Status != models.RegistrationApproved || reg.Tournament == nil {
			continue
		}
		if reg.Tournament.Active(now) {
			return ErrAlreadyApprovedElsewhere
		}
	}

	return nil
}
