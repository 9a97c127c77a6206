package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dias09/esports-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTournamentFixture() (*tournamentService, *fakeTournamentRepo, time.Time) {
	repo := newFakeTournamentRepo()
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	service := &tournamentService{
		tournamentRepo: repo,
		logger:         discardLogger(),
		now:            func() time.Time { return now },
	}
	return service, repo, now
}

func validInput(date time.Time) TournamentInput {
	return TournamentInput{
		Name:     "Spring Open",
		GameName: "dota2",
		Location: "point-a",
		Date:     date,
		MaxTeams: 16,
	}
}

func TestCreateTournament(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}

	t.Run("admin creates", func(t *testing.T) {
		service, _, now := newTournamentFixture()

		tournament, err := service.Create(context.Background(), admin, validInput(now.Add(72*time.Hour)))
		require.NoError(t, err)
		assert.NotZero(t, tournament.ID)
		assert.Equal(t, models.LocationPointA, tournament.Location)
		assert.False(t, tournament.Archived)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		service, _, now := newTournamentFixture()
		_, err := service.Create(context.Background(), &models.User{ID: 2}, validInput(now))
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("input validation", func(t *testing.T) {
		service, _, now := newTournamentFixture()

		input := validInput(now)
		input.Name = " "
		_, err := service.Create(context.Background(), admin, input)
		assert.ErrorIs(t, err, ErrTournamentNameRequired)

		input = validInput(now)
		input.GameName = ""
		_, err = service.Create(context.Background(), admin, input)
		assert.ErrorIs(t, err, ErrTournamentGameRequired)

		input = validInput(now)
		input.Location = "point-c"
		_, err = service.Create(context.Background(), admin, input)
		assert.ErrorIs(t, err, ErrTournamentInvalidLocation)

		input = validInput(now)
		input.MaxTeams = 0
		_, err = service.Create(context.Background(), admin, input)
		assert.ErrorIs(t, err, ErrTournamentInvalidCapacity)
	})
}

func TestUpdateTournamentKeepsArchiveFlag(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}
	service, repo, now := newTournamentFixture()
	existing := repo.add(models.Tournament{ID: 5, Name: "Old", GameName: "dota2", Location: models.LocationPointA, Date: now.Add(24 * time.Hour), MaxTeams: 8, Archived: true})

	updated, err := service.Update(context.Background(), admin, existing.ID, validInput(now.Add(72*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, "Spring Open", updated.Name)
	assert.True(t, updated.Archived, "archive state survives an update")
}

func TestFindLatestByLocation(t *testing.T) {
	service, repo, now := newTournamentFixture()
	repo.add(models.Tournament{ID: 1, Name: "Older", GameName: "dota2", Location: models.LocationPointA, Date: now.Add(24 * time.Hour), MaxTeams: 8})
	latest := repo.add(models.Tournament{ID: 2, Name: "Newer", GameName: "cs2", Location: models.LocationPointA, Date: now.Add(72 * time.Hour), MaxTeams: 8})
	repo.add(models.Tournament{ID: 3, Name: "Elsewhere", GameName: "cs2", Location: models.LocationPointB, Date: now.Add(96 * time.Hour), MaxTeams: 8})

	found, err := service.FindLatestByLocation(context.Background(), "Point-A")
	require.NoError(t, err)
	assert.Equal(t, latest.ID, found.ID)

	_, err = service.FindLatestByLocation(context.Background(), "mars")
	assert.ErrorIs(t, err, ErrTournamentInvalidLocation)
}

func TestListUpcoming(t *testing.T) {
	service, repo, now := newTournamentFixture()
	repo.add(models.Tournament{ID: 1, Name: "Past", GameName: "dota2", Location: models.LocationPointA, Date: now.Add(-24 * time.Hour), MaxTeams: 8})
	repo.add(models.Tournament{ID: 2, Name: "Soon", GameName: "dota2", Location: models.LocationPointA, Date: now.Add(24 * time.Hour), MaxTeams: 8})

	upcoming, err := service.ListUpcoming(context.Background())
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Soon", upcoming[0].Name)
}

func TestArchiveExpired(t *testing.T) {
	service, repo, now := newTournamentFixture()
	repo.add(models.Tournament{ID: 1, Name: "Done", GameName: "dota2", Location: models.LocationPointA, Date: now.Add(-48 * time.Hour), MaxTeams: 8})
	repo.add(models.Tournament{ID: 2, Name: "Also done", GameName: "cs2", Location: models.LocationPointB, Date: now.Add(-24 * time.Hour), MaxTeams: 8})
	repo.add(models.Tournament{ID: 3, Name: "Upcoming", GameName: "cs2", Location: models.LocationPointA, Date: now.Add(24 * time.Hour), MaxTeams: 8})

	require.NoError(t, service.ArchiveExpired(context.Background()))

	first, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, first.Archived)
	second, err := repo.GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, second.Archived)
	third, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, third.Archived)

	// Second run is a no-op.
	require.NoError(t, service.ArchiveExpired(context.Background()))
}

func TestDeleteTournament(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}
	service, repo, now := newTournamentFixture()
	tournament := repo.add(models.Tournament{ID: 1, Name: "Gone", GameName: "dota2", Location: models.LocationPointA, Date: now, MaxTeams: 8})

	assert.ErrorIs(t, service.Delete(context.Background(), &models.User{ID: 2}, tournament.ID), ErrForbiddenOperation)
	require.NoError(t, service.Delete(context.Background(), admin, tournament.ID))
	assert.ErrorIs(t, service.Delete(context.Background(), admin, tournament.ID), ErrTournamentNotFound)
}

func TestDeleteTournamentRemovesRegistrations(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}
	service, repo, now := newTournamentFixture()
	teams := newFakeTeamRepo()
	regs := newFakeRegistrationRepo(repo, teams)

	team := teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})
	doomed := repo.add(models.Tournament{ID: 1, Name: "Gone", GameName: "dota2", Location: models.LocationPointA, Date: now.Add(24 * time.Hour), MaxTeams: 8})
	kept := repo.add(models.Tournament{ID: 2, Name: "Kept", GameName: "dota2", Location: models.LocationPointB, Date: now.Add(48 * time.Hour), MaxTeams: 8})
	regs.add(models.Registration{TeamID: team.ID, TournamentID: doomed.ID, Status: models.RegistrationApproved})
	regs.add(models.Registration{TeamID: team.ID, TournamentID: kept.ID, Status: models.RegistrationPending})

	require.NoError(t, service.Delete(context.Background(), admin, doomed.ID))

	orphans, err := regs.ListByTournament(context.Background(), doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	remaining, err := regs.ListByTournament(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}
