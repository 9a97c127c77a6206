package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dias09/esports-hub/models"
	"github.com/lib/pq"
)

var (
	ErrRegistrationNotFound          = errors.New("registration not found")
	ErrRegistrationConflict          = errors.New("team already registered for this tournament")
	ErrRegistrationTeamInvalid       = errors.New("registration team invalid")
	ErrRegistrationTournamentInvalid = errors.New("registration tournament invalid")
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error)
	// ListByTeamWithTournaments loads the team's registrations together with
	// each registration's tournament, as needed by the eligibility rules.
	ListByTeamWithTournaments(ctx context.Context, teamID int) ([]models.Registration, error)
	UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error
	CountApproved(ctx context.Context, tournamentID int) (int, error)
	// ApprovedGamesByTeam maps each team id to the game names of tournaments
	// the team holds an approved registration for.
	ApprovedGamesByTeam(ctx context.Context) (map[int][]string, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, team_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, registration_date`

	err := r.db.QueryRowContext(ctx, query,
		registration.TournamentID,
		registration.TeamID,
		registration.Status,
	).Scan(&registration.ID, &registration.RegistrationDate)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "registrations_tournament_id_team_id_key" {
					return ErrRegistrationConflict
				}
			case "23503": // foreign_key_violation
				switch pqErr.Constraint {
				case "registrations_team_id_fkey":
					return ErrRegistrationTeamInvalid
				case "registrations_tournament_id_fkey":
					return ErrRegistrationTournamentInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresRegistrationRepository) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	query := `
		SELECT id, tournament_id, team_id, status, registration_date
		FROM registrations
		WHERE id = $1`
	return r.scanRegistration(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRegistrationRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	query := `
		SELECT r.id, r.tournament_id, r.team_id, r.status, r.registration_date,
			t.id, t.name, t.captain_id, t.captain_phone, t.game_name, t.points, t.wins, t.logo_key, t.created_at
		FROM registrations r
		JOIN teams t ON r.team_id = t.id
		WHERE r.tournament_id = $1
		ORDER BY r.registration_date ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		var team models.Team
		if err := rows.Scan(
			&reg.ID,
			&reg.TournamentID,
			&reg.TeamID,
			&reg.Status,
			&reg.RegistrationDate,
			&team.ID,
			&team.Name,
			&team.CaptainID,
			&team.CaptainPhone,
			&team.GameName,
			&team.Points,
			&team.Wins,
			&team.LogoKey,
			&team.CreatedAt,
		); err != nil {
			return nil, err
		}
		reg.Team = &team
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func (r *postgresRegistrationRepository) ListByTeamWithTournaments(ctx context.Context, teamID int) ([]models.Registration, error) {
	query := `
		SELECT r.id, r.tournament_id, r.team_id, r.status, r.registration_date,
			t.id, t.name, t.game_name, t.location, t.date, t.max_teams, t.archived, t.created_at
		FROM registrations r
		JOIN tournaments t ON r.tournament_id = t.id
		WHERE r.team_id = $1
		ORDER BY r.registration_date ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	registrations := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		var tournament models.Tournament
		if err := rows.Scan(
			&reg.ID,
			&reg.TournamentID,
			&reg.TeamID,
			&reg.Status,
			&reg.RegistrationDate,
			&tournament.ID,
			&tournament.Name,
			&tournament.GameName,
			&tournament.Location,
			&tournament.Date,
			&tournament.MaxTeams,
			&tournament.Archived,
			&tournament.CreatedAt,
		); err != nil {
			return nil, err
		}
		reg.Tournament = &tournament
		registrations = append(registrations, reg)
	}
	return registrations, rows.Err()
}

func (r *postgresRegistrationRepository) UpdateStatus(ctx context.Context, id int, status models.RegistrationStatus) error {
	query := `UPDATE registrations SET status = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *postgresRegistrationRepository) CountApproved(ctx context.Context, tournamentID int) (int, error) {
	query := `SELECT COUNT(*) FROM registrations WHERE tournament_id = $1 AND status = $2`

	var count int
	err := r.db.QueryRowContext(ctx, query, tournamentID, models.RegistrationApproved).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRegistrationRepository) ApprovedGamesByTeam(ctx context.Context) (map[int][]string, error) {
	query := `
		SELECT r.team_id, t.game_name
		FROM registrations r
		JOIN tournaments t ON r.tournament_id = t.id
		WHERE r.status = $1`

	rows, err := r.db.QueryContext(ctx, query, models.RegistrationApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make(map[int][]string)
	for rows.Next() {
		var teamID int
		var game string
		if err := rows.Scan(&teamID, &game); err != nil {
			return nil, err
		}
		games[teamID] = append(games[teamID], game)
	}
	return games, rows.Err()
}

func (r *postgresRegistrationRepository) scanRegistration(row *sql.Row) (*models.Registration, error) {
	reg := &models.Registration{}
	err := row.Scan(
		&reg.ID,
		&reg.TournamentID,
		&reg.TeamID,
		&reg.Status,
		&reg.RegistrationDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}
