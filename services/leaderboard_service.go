package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dias09/esports-hub/repositories"
	"github.com/Dias09/esports-hub/standings"
)

// ErrInvalidLeaderboardQuery wraps the standings package's InvalidArgument
// class so handlers can map it to a 400 without importing sort internals.
var ErrInvalidLeaderboardQuery = errors.New("invalid leaderboard query")

// LeaderboardBroadcaster is the live-hub side of leaderboard publishing.
type LeaderboardBroadcaster interface {
	BroadcastLeaderboard(category string, payload interface{})
}

type LeaderboardService interface {
	// Table returns the ranked, display-sorted leaderboard for the query.
	Table(ctx context.Context, category, sortBy, order string) ([]standings.RankedTeam, error)
	LeaderboardPublisher
}

type leaderboardService struct {
	teamRepo    repositories.TeamRepository
	regRepo     repositories.RegistrationRepository
	broadcaster LeaderboardBroadcaster
	logger      *slog.Logger
}

func NewLeaderboardService(
	teamRepo repositories.TeamRepository,
	regRepo repositories.RegistrationRepository,
	broadcaster LeaderboardBroadcaster,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{
		teamRepo:    teamRepo,
		regRepo:     regRepo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

func (s *leaderboardService) Table(ctx context.Context, category, sortBy, order string) ([]standings.RankedTeam, error) {
	sortKey, err := standings.ParseSortKey(sortBy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLeaderboardQuery, err)
	}
	sortOrder, err := standings.ParseOrder(order)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLeaderboardQuery, err)
	}

	entries, err := s.loadEntries(ctx)
	if err != nil {
		return nil, err
	}

	table, err := standings.Build(entries, standings.Options{
		Category: category,
		SortBy:   sortKey,
		Order:    sortOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLeaderboardQuery, err)
	}
	return table, nil
}

// PublishCategory recomputes the category's canonical table and pushes it to
// live subscribers. Failures are logged, not propagated: the triggering
// mutation has already committed.
func (s *leaderboardService) PublishCategory(ctx context.Context, category string) {
	entries, err := s.loadEntries(ctx)
	if err != nil {
		s.logger.Error("failed to load leaderboard entries for broadcast",
			slog.String("category", category), slog.Any("error", err))
		return
	}

	table, err := standings.Build(entries, standings.Options{
		Category: category,
		SortBy:   standings.SortByRank,
		Order:    standings.OrderAsc,
	})
	if err != nil {
		s.logger.Error("failed to build leaderboard for broadcast",
			slog.String("category", category), slog.Any("error", err))
		return
	}

	s.broadcaster.BroadcastLeaderboard(category, table)
}

func (s *leaderboardService) loadEntries(ctx context.Context) ([]standings.Entry, error) {
	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	approvedGames, err := s.regRepo.ApprovedGamesByTeam(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved registrations: %w", err)
	}

	entries := make([]standings.Entry, 0, len(teams))
	for _, team := range teams {
		entries = append(entries, standings.Entry{
			Team:          team,
			ApprovedGames: approvedGames[team.ID],
		})
	}
	return entries, nil
}
