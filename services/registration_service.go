package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias09/esports-hub/models"
	"github.com/Dias09/esports-hub/repositories"
)

type RegistrationService interface {
	// Register submits a pending registration for one of the actor's teams.
	Register(ctx context.Context, actor *models.User, teamID, tournamentID int) (*models.Registration, error)
	// UpdateStatus decides a pending registration. Only pending->approved and
	// pending->rejected are legal transitions.
	UpdateStatus(ctx context.Context, actor *models.User, registrationID int, status models.RegistrationStatus) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error)
}

type registrationService struct {
	regRepo        repositories.RegistrationRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	publisher      LeaderboardPublisher
	now            func() time.Time
}

func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	publisher LeaderboardPublisher,
) RegistrationService {
	return &registrationService{
		regRepo:        regRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		publisher:      publisher,
		now:            time.Now,
	}
}

func (s *registrationService) Register(ctx context.Context, actor *models.User, teamID, tournamentID int) (*models.Registration, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if !CanManageTeam(actor, team) {
		return nil, ErrForbiddenOperation
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil && !errors.Is(err, repositories.ErrTournamentNotFound) {
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	existing, err := s.regRepo.ListByTeamWithTournaments(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations for team %d: %w", teamID, err)
	}

	if err := CanRegister(team, tournament, existing, s.now()); err != nil {
		return nil, err
	}

	registration := &models.Registration{
		TournamentID: tournamentID,
		TeamID:       teamID,
		Status:       models.RegistrationPending,
	}
	if err := s.regRepo.Create(ctx, registration); err != nil {
		// Lost a race with a concurrent submission of the same pair.
		if errors.Is(err, repositories.ErrRegistrationConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return registration, nil
}

func (s *registrationService) UpdateStatus(ctx context.Context, actor *models.User, registrationID int, status models.RegistrationStatus) (*models.Registration, error) {
	if !CanUpdateRegistrationStatus(actor) {
		return nil, ErrForbiddenOperation
	}
	if status != models.RegistrationApproved && status != models.RegistrationRejected {
		return nil, ErrInvalidRegistrationStatus
	}

	registration, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", registrationID, err)
	}
	if registration.Status != models.RegistrationPending {
		return nil, ErrRegistrationDecided
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, registration.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", registration.TournamentID, err)
	}

	if status == models.RegistrationApproved {
		approved, err := s.regRepo.CountApproved(ctx, tournament.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count approved registrations: %w", err)
		}
		if approved >= tournament.MaxTeams {
			return nil, ErrTournamentFull
		}
	}

	if err := s.regRepo.UpdateStatus(ctx, registrationID, status); err != nil {
		if errors.Is(err, repositories.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration %d: %w", registrationID, err)
	}
	registration.Status = status

	// Approval changes who appears on the public leaderboard.
	if status == models.RegistrationApproved {
		s.publisher.PublishCategory(ctx, tournament.GameName)
	}
	return registration, nil
}

func (s *registrationService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", tournamentID, err)
	}

	registrations, err := s.regRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations for tournament %d: %w", tournamentID, err)
	}
	return registrations, nil
}
