package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dias09/esports-hub/models"
	"github.com/Dias09/esports-hub/repositories"
	"golang.org/x/sync/errgroup"
)

const archiveConcurrency = 4

type TournamentInput struct {
	Name     string    `json:"name"`
	GameName string    `json:"game_name"`
	Location string    `json:"location"`
	Date     time.Time `json:"date"`
	MaxTeams int       `json:"max_teams"`
}

type TournamentService interface {
	Create(ctx context.Context, actor *models.User, input TournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	FindLatestByLocation(ctx context.Context, location string) (*models.Tournament, error)
	ListUpcoming(ctx context.Context) ([]models.Tournament, error)
	ListGameNames(ctx context.Context) ([]string, error)
	Update(ctx context.Context, actor *models.User, id int, input TournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, actor *models.User, id int) error
	// ArchiveExpired flags every tournament whose date has passed. Run
	// periodically from main.
	ArchiveExpired(ctx context.Context) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
	now            func() time.Time
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, logger *slog.Logger) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *tournamentService) Create(ctx context.Context, actor *models.User, input TournamentInput) (*models.Tournament, error) {
	if !CanManageTournament(actor) {
		return nil, ErrForbiddenOperation
	}

	tournament, err := tournamentFromInput(input)
	if err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) FindLatestByLocation(ctx context.Context, location string) (*models.Tournament, error) {
	loc, ok := models.ParseTournamentLocation(location)
	if !ok {
		return nil, ErrTournamentInvalidLocation
	}

	tournament, err := s.tournamentRepo.FindLatestByLocation(ctx, loc, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to find tournament at %s: %w", loc, err)
	}
	return tournament, nil
}

func (s *tournamentService) ListUpcoming(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.ListUpcoming(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) ListGameNames(ctx context.Context) ([]string, error) {
	games, err := s.tournamentRepo.ListGameNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list game names: %w", err)
	}
	return games, nil
}

func (s *tournamentService) Update(ctx context.Context, actor *models.User, id int, input TournamentInput) (*models.Tournament, error) {
	if !CanManageTournament(actor) {
		return nil, ErrForbiddenOperation
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tournament, err := tournamentFromInput(input)
	if err != nil {
		return nil, err
	}
	tournament.ID = existing.ID
	tournament.Archived = existing.Archived
	tournament.CreatedAt = existing.CreatedAt

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, actor *models.User, id int) error {
	if !CanManageTournament(actor) {
		return ErrForbiddenOperation
	}

	if err := s.tournamentRepo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) ArchiveExpired(ctx context.Context) error {
	expired, err := s.tournamentRepo.ListExpiredUnarchived(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to list expired tournaments: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(archiveConcurrency)
	for _, tournament := range expired {
		tournament := tournament
		g.Go(func() error {
			if err := s.tournamentRepo.SetArchived(ctx, tournament.ID, true); err != nil {
				return fmt.Errorf("failed to archive tournament %d: %w", tournament.ID, err)
			}
			s.logger.Info("archived expired tournament",
				slog.Int("tournament_id", tournament.ID),
				slog.String("name", tournament.Name),
				slog.Time("date", tournament.Date))
			return nil
		})
	}
	return g.Wait()
}

func tournamentFromInput(input TournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	game := strings.TrimSpace(input.GameName)
	if game == "" {
		return nil, ErrTournamentGameRequired
	}
	location, ok := models.ParseTournamentLocation(input.Location)
	if !ok {
		return nil, ErrTournamentInvalidLocation
	}
	if input.MaxTeams <= 0 {
		return nil, ErrTournamentInvalidCapacity
	}

	return &models.Tournament{
		Name:     name,
		GameName: game,
		Location: location,
		Date:     input.Date,
		MaxTeams: input.MaxTeams,
	}, nil
}
