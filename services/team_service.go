package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Dias09/esports-hub/models"
	"github.com/Dias09/esports-hub/repositories"
	"github.com/Dias09/esports-hub/storage"
)

// LeaderboardPublisher pushes a freshly computed leaderboard for a category
// to live subscribers after a rank-affecting mutation.
type LeaderboardPublisher interface {
	PublishCategory(ctx context.Context, category string)
}

type CreateTeamInput struct {
	Name         string   `json:"name"`
	GameName     string   `json:"game_name"`
	CaptainPhone string   `json:"captain_phone"`
	Players      []string `json:"players"`
}

type UpdateTeamInput struct {
	Name         string `json:"name"`
	GameName     string `json:"game_name"`
	CaptainPhone string `json:"captain_phone"`
}

type TeamService interface {
	Create(ctx context.Context, actor *models.User, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, actor *models.User, id int) (*models.Team, error)
	ListOwn(ctx context.Context, actor *models.User) ([]models.Team, error)
	Update(ctx context.Context, actor *models.User, id int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, actor *models.User, id int) error
	AdjustRecord(ctx context.Context, actor *models.User, id, points, wins int) (*models.Team, error)
	UploadLogo(ctx context.Context, actor *models.User, id int, contentType string, file io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	regRepo    repositories.RegistrationRepository
	uploader   storage.FileUploader
	publisher  LeaderboardPublisher
	logger     *slog.Logger
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	regRepo repositories.RegistrationRepository,
	uploader storage.FileUploader,
	publisher LeaderboardPublisher,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		regRepo:    regRepo,
		uploader:   uploader,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *teamService) Create(ctx context.Context, actor *models.User, input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	game := strings.TrimSpace(input.GameName)
	if game == "" {
		return nil, ErrTeamGameRequired
	}
	for _, playerName := range input.Players {
		if strings.TrimSpace(playerName) == "" {
			return nil, ErrPlayerNameRequired
		}
	}

	team := &models.Team{
		Name:         name,
		CaptainID:    actor.ID,
		CaptainPhone: strings.TrimSpace(input.CaptainPhone),
		GameName:     game,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	for _, playerName := range input.Players {
		player := &models.Player{Name: strings.TrimSpace(playerName), TeamID: team.ID}
		if err := s.playerRepo.Create(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to add player %q to team %d: %w", player.Name, team.ID, err)
		}
		team.Players = append(team.Players, *player)
	}

	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, actor *models.User, id int) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	// Captains manage, admins get a read-only view.
	if !CanManageTeam(actor, team) && !(actor != nil && actor.IsAdmin) {
		return nil, ErrForbiddenOperation
	}

	players, err := s.playerRepo.ListByTeamID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for team %d: %w", id, err)
	}
	team.Players = players

	registrations, err := s.regRepo.ListByTeamWithTournaments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations for team %d: %w", id, err)
	}
	team.Registrations = registrations

	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListOwn(ctx context.Context, actor *models.User) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByCaptainID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for captain %d: %w", actor.ID, err)
	}
	for i := range teams {
		s.populateLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, actor *models.User, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageTeam(actor, team) {
		return nil, ErrForbiddenOperation
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	game := strings.TrimSpace(input.GameName)
	if game == "" {
		return nil, ErrTeamGameRequired
	}

	team.Name = name
	team.GameName = game
	team.CaptainPhone = strings.TrimSpace(input.CaptainPhone)

	if err := s.teamRepo.Update(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return nil, ErrTeamNameConflict
		}
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update team %d: %w", id, err)
	}

	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, actor *models.User, id int) error {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return err
	}
	if !CanDeleteTeam(actor, team) {
		return ErrForbiddenOperation
	}

	if err := s.teamRepo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}

	if team.LogoKey != nil {
		if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
			s.logger.Warn("failed to delete team logo from storage",
				slog.Int("team_id", id), slog.Any("error", err))
		}
	}

	s.publisher.PublishCategory(ctx, team.GameName)
	return nil
}

func (s *teamService) AdjustRecord(ctx context.Context, actor *models.User, id, points, wins int) (*models.Team, error) {
	if !CanAdjustTeamRecord(actor) {
		return nil, ErrForbiddenOperation
	}
	if points < 0 || wins < 0 {
		return nil, ErrNegativeRecord
	}

	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateRecord(ctx, id, points, wins); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update record for team %d: %w", id, err)
	}
	team.Points = points
	team.Wins = wins

	s.publisher.PublishCategory(ctx, team.GameName)
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, actor *models.User, id int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanManageTeam(actor, team) {
		return nil, ErrForbiddenOperation
	}

	key := fmt.Sprintf("teams/%d/logo-%d", id, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", id, err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store logo key for team %d: %w", id, err)
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous team logo",
				slog.Int("team_id", id), slog.Any("error", err))
		}
	}

	team.LogoKey = &result.Key
	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) getTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team.LogoKey != nil {
		url := s.uploader.GetPublicURL(*team.LogoKey)
		team.LogoURL = &url
	}
}
