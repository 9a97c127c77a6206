package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Dias09/esports-hub/models"
	"github.com/Dias09/esports-hub/repositories"
	"github.com/Dias09/esports-hub/storage"
)

// In-memory repository doubles used across the service tests. They mirror the
// constraint behavior of the Postgres implementations closely enough for the
// service-level rules under test.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int

	// Cascade targets, mirroring the foreign keys the real schema deletes
	// through in one transaction.
	players       *fakePlayerRepo
	registrations *fakeRegistrationRepo
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: map[int]*models.Team{}, nextID: 1}
}

func (r *fakeTeamRepo) add(team models.Team) *models.Team {
	if team.ID == 0 {
		team.ID = r.nextID
		r.nextID++
	} else if team.ID >= r.nextID {
		r.nextID = team.ID + 1
	}
	r.teams[team.ID] = &team
	return &team
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	for _, existing := range r.teams {
		if strings.EqualFold(existing.Name, team.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	team.CreatedAt = time.Now()
	stored := *team
	r.teams[team.ID] = &stored
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) ListAll(_ context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, *team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (r *fakeTeamRepo) ListByCaptainID(_ context.Context, captainID int) ([]models.Team, error) {
	var teams []models.Team
	all, _ := r.ListAll(context.Background())
	for _, team := range all {
		if team.CaptainID == captainID {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	stored, ok := r.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	for id, existing := range r.teams {
		if id != team.ID && strings.EqualFold(existing.Name, team.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	stored.Name = team.Name
	stored.GameName = team.GameName
	stored.CaptainPhone = team.CaptainPhone
	return nil
}

func (r *fakeTeamRepo) UpdateRecord(_ context.Context, id, points, wins int) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.Points = points
	team.Wins = wins
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.LogoKey = logoKey
	return nil
}

func (r *fakeTeamRepo) DeleteCascade(_ context.Context, id int) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	if r.registrations != nil {
		for regID, registration := range r.registrations.registrations {
			if registration.TeamID == id {
				delete(r.registrations.registrations, regID)
			}
		}
	}
	if r.players != nil {
		for playerID, player := range r.players.players {
			if player.TeamID == id {
				delete(r.players.players, playerID)
			}
		}
	}
	delete(r.teams, id)
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: map[int]*models.Player{}, nextID: 1}
}

func (r *fakePlayerRepo) add(player models.Player) *models.Player {
	if player.ID == 0 {
		player.ID = r.nextID
		r.nextID++
	} else if player.ID >= r.nextID {
		r.nextID = player.ID + 1
	}
	r.players[player.ID] = &player
	return &player
}

func (r *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	player.ID = r.nextID
	r.nextID++
	player.JoinDate = time.Now()
	stored := *player
	r.players[player.ID] = &stored
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	player, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	copied := *player
	return &copied, nil
}

func (r *fakePlayerRepo) ListByTeamID(_ context.Context, teamID int) ([]models.Player, error) {
	var players []models.Player
	for _, player := range r.players {
		if player.TeamID == teamID {
			players = append(players, *player)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (r *fakePlayerRepo) UpdateName(_ context.Context, id int, name string) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.Name = name
	return nil
}

func (r *fakePlayerRepo) UpdateAvatarKey(_ context.Context, id int, avatarKey *string) error {
	player, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	player.AvatarKey = avatarKey
	return nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

type fakeTournamentRepo struct {
	tournaments map[int]*models.Tournament
	nextID      int

	registrations *fakeRegistrationRepo
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: map[int]*models.Tournament{}, nextID: 1}
}

func (r *fakeTournamentRepo) add(tournament models.Tournament) *models.Tournament {
	if tournament.ID == 0 {
		tournament.ID = r.nextID
		r.nextID++
	} else if tournament.ID >= r.nextID {
		r.nextID = tournament.ID + 1
	}
	r.tournaments[tournament.ID] = &tournament
	return &tournament
}

func (r *fakeTournamentRepo) Create(_ context.Context, tournament *models.Tournament) error {
	tournament.ID = r.nextID
	r.nextID++
	tournament.CreatedAt = time.Now()
	stored := *tournament
	r.tournaments[tournament.ID] = &stored
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	tournament, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *tournament
	return &copied, nil
}

func (r *fakeTournamentRepo) FindLatestByLocation(_ context.Context, location models.TournamentLocation, now time.Time) (*models.Tournament, error) {
	var latest *models.Tournament
	for _, tournament := range r.tournaments {
		if tournament.Location != location || tournament.Archived || tournament.Date.Before(now) {
			continue
		}
		if latest == nil || tournament.Date.After(latest.Date) {
			latest = tournament
		}
	}
	if latest == nil {
		return nil, repositories.ErrTournamentNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *fakeTournamentRepo) ListUpcoming(_ context.Context, now time.Time) ([]models.Tournament, error) {
	var upcoming []models.Tournament
	for _, tournament := range r.tournaments {
		if !tournament.Archived && !tournament.Date.Before(now) {
			upcoming = append(upcoming, *tournament)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date.Before(upcoming[j].Date) })
	return upcoming, nil
}

func (r *fakeTournamentRepo) ListGameNames(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var games []string
	for _, tournament := range r.tournaments {
		if !seen[tournament.GameName] {
			seen[tournament.GameName] = true
			games = append(games, tournament.GameName)
		}
	}
	sort.Strings(games)
	return games, nil
}

func (r *fakeTournamentRepo) ListExpiredUnarchived(_ context.Context, now time.Time) ([]models.Tournament, error) {
	var expired []models.Tournament
	for _, tournament := range r.tournaments {
		if !tournament.Archived && tournament.Date.Before(now) {
			expired = append(expired, *tournament)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}

func (r *fakeTournamentRepo) Update(_ context.Context, tournament *models.Tournament) error {
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	stored := *tournament
	r.tournaments[tournament.ID] = &stored
	return nil
}

func (r *fakeTournamentRepo) SetArchived(_ context.Context, id int, archived bool) error {
	tournament, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	tournament.Archived = archived
	return nil
}

func (r *fakeTournamentRepo) DeleteCascade(_ context.Context, id int) error {
	if _, ok := r.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	if r.registrations != nil {
		for regID, registration := range r.registrations.registrations {
			if registration.TournamentID == id {
				delete(r.registrations.registrations, regID)
			}
		}
	}
	delete(r.tournaments, id)
	return nil
}

type fakeRegistrationRepo struct {
	registrations map[int]*models.Registration
	tournaments   *fakeTournamentRepo
	teams         *fakeTeamRepo
	nextID        int
}

func newFakeRegistrationRepo(tournaments *fakeTournamentRepo, teams *fakeTeamRepo) *fakeRegistrationRepo {
	r := &fakeRegistrationRepo{
		registrations: map[int]*models.Registration{},
		tournaments:   tournaments,
		teams:         teams,
		nextID:        1,
	}
	if teams != nil {
		teams.registrations = r
	}
	if tournaments != nil {
		tournaments.registrations = r
	}
	return r
}

func (r *fakeRegistrationRepo) add(registration models.Registration) *models.Registration {
	if registration.ID == 0 {
		registration.ID = r.nextID
		r.nextID++
	} else if registration.ID >= r.nextID {
		r.nextID = registration.ID + 1
	}
	r.registrations[registration.ID] = &registration
	return &registration
}

func (r *fakeRegistrationRepo) Create(_ context.Context, registration *models.Registration) error {
	for _, existing := range r.registrations {
		if existing.TeamID == registration.TeamID && existing.TournamentID == registration.TournamentID {
			return repositories.ErrRegistrationConflict
		}
	}
	registration.ID = r.nextID
	r.nextID++
	registration.RegistrationDate = time.Now()
	stored := *registration
	r.registrations[registration.ID] = &stored
	return nil
}

func (r *fakeRegistrationRepo) GetByID(_ context.Context, id int) (*models.Registration, error) {
	registration, ok := r.registrations[id]
	if !ok {
		return nil, repositories.ErrRegistrationNotFound
	}
	copied := *registration
	return &copied, nil
}

func (r *fakeRegistrationRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Registration, error) {
	var registrations []models.Registration
	for _, registration := range r.registrations {
		if registration.TournamentID != tournamentID {
			continue
		}
		copied := *registration
		if r.teams != nil {
			if team, ok := r.teams.teams[copied.TeamID]; ok {
				teamCopy := *team
				copied.Team = &teamCopy
			}
		}
		registrations = append(registrations, copied)
	}
	sort.Slice(registrations, func(i, j int) bool { return registrations[i].ID < registrations[j].ID })
	return registrations, nil
}

func (r *fakeRegistrationRepo) ListByTeamWithTournaments(_ context.Context, teamID int) ([]models.Registration, error) {
	var registrations []models.Registration
	for _, registration := range r.registrations {
		if registration.TeamID != teamID {
			continue
		}
		copied := *registration
		if r.tournaments != nil {
			if tournament, ok := r.tournaments.tournaments[copied.TournamentID]; ok {
				tournamentCopy := *tournament
				copied.Tournament = &tournamentCopy
			}
		}
		registrations = append(registrations, copied)
	}
	sort.Slice(registrations, func(i, j int) bool { return registrations[i].ID < registrations[j].ID })
	return registrations, nil
}

func (r *fakeRegistrationRepo) UpdateStatus(_ context.Context, id int, status models.RegistrationStatus) error {
	registration, ok := r.registrations[id]
	if !ok {
		return repositories.ErrRegistrationNotFound
	}
	registration.Status = status
	return nil
}

func (r *fakeRegistrationRepo) CountApproved(_ context.Context, tournamentID int) (int, error) {
	count := 0
	for _, registration := range r.registrations {
		if registration.TournamentID == tournamentID && registration.Status == models.RegistrationApproved {
			count++
		}
	}
	return count, nil
}

func (r *fakeRegistrationRepo) ApprovedGamesByTeam(_ context.Context) (map[int][]string, error) {
	games := map[int][]string{}
	for _, registration := range r.registrations {
		if registration.Status != models.RegistrationApproved || r.tournaments == nil {
			continue
		}
		if tournament, ok := r.tournaments.tournaments[registration.TournamentID]; ok {
			games[registration.TeamID] = append(games[registration.TeamID], tournament.GameName)
		}
	}
	return games, nil
}

type fakeUploader struct {
	uploaded []string
	deleted  []string
	baseURL  string
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{baseURL: "https://cdn.test"}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key, Location: u.baseURL + "/" + key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return u.baseURL + "/" + key
}

type fakePublisher struct {
	categories []string
}

func (p *fakePublisher) PublishCategory(_ context.Context, category string) {
	p.categories = append(p.categories, category)
}

type fakeBroadcaster struct {
	categories []string
	payloads   []interface{}
}

func (b *fakeBroadcaster) BroadcastLeaderboard(category string, payload interface{}) {
	b.categories = append(b.categories, category)
	b.payloads = append(b.payloads, payload)
}
