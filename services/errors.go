package services

import "errors"

// Errors shared across services and mapped to HTTP statuses in handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrEmailTooShort         = errors.New("email must be greater than 3 characters")
	ErrFirstNameTooShort     = errors.New("first name must be greater than 1 character")
	ErrPasswordTooShort      = errors.New("password must be at least 7 characters")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrTeamGameRequired      = errors.New("team game is required")
	ErrNegativeRecord        = errors.New("points and wins must not be negative")
	ErrPlayerNameRequired    = errors.New("player name is required")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentGameRequired = errors.New("tournament game is required")
	ErrTournamentInvalidLocation = errors.New("invalid tournament location")
	ErrTournamentInvalidCapacity = errors.New("tournament max teams must be positive")
	ErrInvalidRegistrationStatus = errors.New("invalid registration status")

	// Eligibility (checked in order, first failure wins)
	ErrTournamentUnavailable    = errors.New("tournament does not exist or is archived")
	ErrGameMismatch             = errors.New("team game does not match tournament game")
	ErrAlreadyRegistered        = errors.New("team is already registered for this tournament")
	ErrAlreadyApprovedElsewhere = errors.New("team already holds an approved registration for an active tournament")

	// Registration lifecycle
	ErrRegistrationDecided = errors.New("registration has already been decided")
	ErrTournamentFull      = errors.New("tournament has no remaining team slots")

	// Conflicts
	ErrUserEmailConflict = errors.New("email address is already in use")
	ErrTeamNameConflict  = errors.New("team name is already in use")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrPlayerNotFound       = errors.New("player not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
)
