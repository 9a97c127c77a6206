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

type PlayerService interface {
	Add(ctx context.Context, actor *models.User, teamID int, name string) (*models.Player, error)
	Rename(ctx context.Context, actor *models.User, playerID int, name string) (*models.Player, error)
	Remove(ctx context.Context, actor *models.User, playerID int) error
	UploadAvatar(ctx context.Context, actor *models.User, playerID int, contentType string, file io.Reader) (*models.Player, error)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	uploader   storage.FileUploader
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		uploader:   uploader,
		logger:     logger,
	}
}

func (s *playerService) Add(ctx context.Context, actor *models.User, teamID int, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if !CanManagePlayer(actor, team) {
		return nil, ErrForbiddenOperation
	}

	player := &models.Player{Name: name, TeamID: teamID}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to add player to team %d: %w", teamID, err)
	}
	return player, nil
}

func (s *playerService) Rename(ctx context.Context, actor *models.User, playerID int, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPlayerNameRequired
	}

	player, err := s.authorizedPlayer(ctx, actor, playerID)
	if err != nil {
		return nil, err
	}

	if err := s.playerRepo.UpdateName(ctx, playerID, name); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to rename player %d: %w", playerID, err)
	}
	player.Name = name
	return player, nil
}

func (s *playerService) Remove(ctx context.Context, actor *models.User, playerID int) error {
	player, err := s.authorizedPlayer(ctx, actor, playerID)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to remove player %d: %w", playerID, err)
	}

	if player.AvatarKey != nil {
		if err := s.uploader.Delete(ctx, *player.AvatarKey); err != nil {
			s.logger.Warn("failed to delete player avatar from storage",
				slog.Int("player_id", playerID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *playerService) UploadAvatar(ctx context.Context, actor *models.User, playerID int, contentType string, file io.Reader) (*models.Player, error) {
	player, err := s.authorizedPlayer(ctx, actor, playerID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("players/%d/avatar-%d", playerID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar for player %d: %w", playerID, err)
	}

	oldKey := player.AvatarKey
	if err := s.playerRepo.UpdateAvatarKey(ctx, playerID, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to store avatar key for player %d: %w", playerID, err)
	}
	if oldKey != nil && *oldKey != result.Key {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous player avatar",
				slog.Int("player_id", playerID), slog.Any("error", err))
		}
	}

	player.AvatarKey = &result.Key
	url := s.uploader.GetPublicURL(result.Key)
	player.AvatarURL = &url
	return player, nil
}

// authorizedPlayer loads the player and checks management rights through the
// owning team.
func (s *playerService) authorizedPlayer(ctx context.Context, actor *models.User, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}

	team, err := s.teamRepo.GetByID(ctx, player.TeamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", player.TeamID, err)
	}
	if !CanManagePlayer(actor, team) {
		return nil, ErrForbiddenOperation
	}
	return player, nil
}
