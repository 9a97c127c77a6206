package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Dias09/esports-hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teamFixture struct {
	service   TeamService
	teams     *fakeTeamRepo
	players   *fakePlayerRepo
	regs      *fakeRegistrationRepo
	uploader  *fakeUploader
	publisher *fakePublisher
}

func newTeamFixture() *teamFixture {
	teams := newFakeTeamRepo()
	players := newFakePlayerRepo()
	tournaments := newFakeTournamentRepo()
	regs := newFakeRegistrationRepo(tournaments, teams)
	teams.players = players
	uploader := newFakeUploader()
	publisher := &fakePublisher{}

	return &teamFixture{
		service:   NewTeamService(teams, players, regs, uploader, publisher, discardLogger()),
		teams:     teams,
		players:   players,
		regs:      regs,
		uploader:  uploader,
		publisher: publisher,
	}
}

func TestCreateTeam(t *testing.T) {
	captain := &models.User{ID: 7}

	t.Run("creates team with roster", func(t *testing.T) {
		f := newTeamFixture()
		team, err := f.service.Create(context.Background(), captain, CreateTeamInput{
			Name:     "Alpha",
			GameName: "dota2",
			Players:  []string{"one", "two"},
		})
		require.NoError(t, err)
		assert.Equal(t, captain.ID, team.CaptainID)
		assert.NotZero(t, team.ID)
		require.Len(t, team.Players, 2)
		assert.Equal(t, team.ID, team.Players[0].TeamID)
	})

	t.Run("rejects blank name and game", func(t *testing.T) {
		f := newTeamFixture()
		_, err := f.service.Create(context.Background(), captain, CreateTeamInput{Name: "  ", GameName: "dota2"})
		assert.ErrorIs(t, err, ErrTeamNameRequired)

		_, err = f.service.Create(context.Background(), captain, CreateTeamInput{Name: "Alpha", GameName: ""})
		assert.ErrorIs(t, err, ErrTeamGameRequired)
	})

	t.Run("rejects blank player names", func(t *testing.T) {
		f := newTeamFixture()
		_, err := f.service.Create(context.Background(), captain, CreateTeamInput{
			Name:     "Alpha",
			GameName: "dota2",
			Players:  []string{"one", "  "},
		})
		assert.ErrorIs(t, err, ErrPlayerNameRequired)
	})

	t.Run("maps a name conflict", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 8, GameName: "dota2"})

		_, err := f.service.Create(context.Background(), captain, CreateTeamInput{Name: "alpha", GameName: "dota2"})
		assert.ErrorIs(t, err, ErrTeamNameConflict)
	})
}

func TestGetTeamByID(t *testing.T) {
	f := newTeamFixture()
	logoKey := "teams/1/logo-1"
	team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2", LogoKey: &logoKey})
	f.players.add(models.Player{ID: 1, Name: "one", TeamID: team.ID})

	t.Run("captain sees roster and logo URL", func(t *testing.T) {
		got, err := f.service.GetByID(context.Background(), &models.User{ID: 7}, team.ID)
		require.NoError(t, err)
		require.Len(t, got.Players, 1)
		require.NotNil(t, got.LogoURL)
		assert.True(t, strings.HasSuffix(*got.LogoURL, logoKey))
	})

	t.Run("admin gets a read view", func(t *testing.T) {
		_, err := f.service.GetByID(context.Background(), &models.User{ID: 99, IsAdmin: true}, team.ID)
		assert.NoError(t, err)
	})

	t.Run("strangers are rejected", func(t *testing.T) {
		_, err := f.service.GetByID(context.Background(), &models.User{ID: 8}, team.ID)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("unknown team", func(t *testing.T) {
		_, err := f.service.GetByID(context.Background(), &models.User{ID: 7}, 99)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})
}

func TestUpdateTeam(t *testing.T) {
	captain := &models.User{ID: 7}

	t.Run("captain updates fields", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		updated, err := f.service.Update(context.Background(), captain, team.ID, UpdateTeamInput{
			Name: "Alpha Prime", GameName: "cs2", CaptainPhone: "+100",
		})
		require.NoError(t, err)
		assert.Equal(t, "Alpha Prime", updated.Name)
		assert.Equal(t, "cs2", updated.GameName)

		stored, err := f.teams.GetByID(context.Background(), team.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alpha Prime", stored.Name)
	})

	t.Run("admins cannot edit someone else's team", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		_, err := f.service.Update(context.Background(), &models.User{ID: 99, IsAdmin: true}, team.ID, UpdateTeamInput{Name: "X", GameName: "cs2"})
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("maps a name conflict", func(t *testing.T) {
		f := newTeamFixture()
		f.teams.add(models.Team{ID: 1, Name: "Bravo", CaptainID: 8, GameName: "dota2"})
		team := f.teams.add(models.Team{ID: 2, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		_, err := f.service.Update(context.Background(), captain, team.ID, UpdateTeamInput{Name: "BRAVO", GameName: "dota2"})
		assert.ErrorIs(t, err, ErrTeamNameConflict)
	})
}

func TestDeleteTeam(t *testing.T) {
	t.Run("captain deletes and logo is removed", func(t *testing.T) {
		f := newTeamFixture()
		logoKey := "teams/1/logo-1"
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2", LogoKey: &logoKey})

		err := f.service.Delete(context.Background(), &models.User{ID: 7}, team.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{logoKey}, f.uploader.deleted)
		assert.Equal(t, []string{"dota2"}, f.publisher.categories)

		_, err = f.teams.GetByID(context.Background(), team.ID)
		assert.Error(t, err)
	})

	t.Run("players and registrations go with the team", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})
		other := f.teams.add(models.Team{ID: 2, Name: "Bravo", CaptainID: 8, GameName: "dota2"})
		f.players.add(models.Player{ID: 1, Name: "one", TeamID: team.ID})
		f.players.add(models.Player{ID: 2, Name: "two", TeamID: team.ID})
		survivor := f.players.add(models.Player{ID: 3, Name: "three", TeamID: other.ID})
		f.regs.add(models.Registration{TeamID: team.ID, TournamentID: 10, Status: models.RegistrationApproved})
		f.regs.add(models.Registration{TeamID: other.ID, TournamentID: 10, Status: models.RegistrationPending})

		require.NoError(t, f.service.Delete(context.Background(), &models.User{ID: 7}, team.ID))

		orphanPlayers, err := f.players.ListByTeamID(context.Background(), team.ID)
		require.NoError(t, err)
		assert.Empty(t, orphanPlayers)
		orphanRegs, err := f.regs.ListByTeamWithTournaments(context.Background(), team.ID)
		require.NoError(t, err)
		assert.Empty(t, orphanRegs)

		remaining, err := f.players.ListByTeamID(context.Background(), other.ID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, survivor.ID, remaining[0].ID)
		otherRegs, err := f.regs.ListByTeamWithTournaments(context.Background(), other.ID)
		require.NoError(t, err)
		assert.Len(t, otherRegs, 1)
	})

	t.Run("admin may delete", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		err := f.service.Delete(context.Background(), &models.User{ID: 99, IsAdmin: true}, team.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger may not", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		err := f.service.Delete(context.Background(), &models.User{ID: 8}, team.ID)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})
}

func TestAdjustRecord(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}

	t.Run("admin sets points and wins and publishes", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		updated, err := f.service.AdjustRecord(context.Background(), admin, team.ID, 15, 4)
		require.NoError(t, err)
		assert.Equal(t, 15, updated.Points)
		assert.Equal(t, 4, updated.Wins)
		assert.Equal(t, []string{"dota2"}, f.publisher.categories)

		stored, err := f.teams.GetByID(context.Background(), team.ID)
		require.NoError(t, err)
		assert.Equal(t, 15, stored.Points)
	})

	t.Run("captain may not adjust the record", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		_, err := f.service.AdjustRecord(context.Background(), &models.User{ID: 7}, team.ID, 15, 4)
		assert.ErrorIs(t, err, ErrForbiddenOperation)
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		f := newTeamFixture()
		team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2"})

		_, err := f.service.AdjustRecord(context.Background(), admin, team.ID, -1, 0)
		assert.ErrorIs(t, err, ErrNegativeRecord)

		_, err = f.service.AdjustRecord(context.Background(), admin, team.ID, 0, -1)
		assert.ErrorIs(t, err, ErrNegativeRecord)
	})
}

func TestUploadLogo(t *testing.T) {
	f := newTeamFixture()
	oldKey := "teams/1/logo-old"
	team := f.teams.add(models.Team{ID: 1, Name: "Alpha", CaptainID: 7, GameName: "dota2", LogoKey: &oldKey})

	updated, err := f.service.UploadLogo(context.Background(), &models.User{ID: 7}, team.ID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.NotNil(t, updated.LogoKey)
	assert.NotEqual(t, oldKey, *updated.LogoKey)
	require.Len(t, f.uploader.uploaded, 1)
	assert.Equal(t, []string{oldKey}, f.uploader.deleted)
	require.NotNil(t, updated.LogoURL)

	_, err = f.service.UploadLogo(context.Background(), &models.User{ID: 8}, team.ID, "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrForbiddenOperation)
}
