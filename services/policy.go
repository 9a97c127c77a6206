package services

import "github.com/Dias09/esports-hub/models"

// Access policy predicates. The acting user is always passed in explicitly;
// nothing here reads ambient request state.

// CanManageTeam reports whether the actor may edit the team, its roster and
// its logo. Mutation rights stay with the captain; admins get their own
// narrow capabilities below.
func CanManageTeam(actor *models.User, team *models.Team) bool {
	if actor == nil || team == nil {
		return false
	}
	return actor.ID == team.CaptainID
}

// CanDeleteTeam allows the captain or an admin to remove a team.
func CanDeleteTeam(actor *models.User, team *models.Team) bool {
	if actor == nil || team == nil {
		return false
	}
	return actor.IsAdmin || actor.ID == team.CaptainID
}

// CanAdjustTeamRecord gates points/wins updates, the admin-only capability
// kept separate from regular team management.
func CanAdjustTeamRecord(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

// CanManagePlayer delegates to the owning team's management rights.
func CanManagePlayer(actor *models.User, team *models.Team) bool {
	return CanManageTeam(actor, team)
}

func CanManageTournament(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}

func CanUpdateRegistrationStatus(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}
