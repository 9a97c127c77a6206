package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dias09/esports-hub/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// FindLatestByLocation returns the most recently dated active tournament
	// hosted at the given venue.
	FindLatestByLocation(ctx context.Context, location models.TournamentLocation, now time.Time) (*models.Tournament, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]models.Tournament, error)
	ListGameNames(ctx context.Context) ([]string, error)
	ListExpiredUnarchived(ctx context.Context, now time.Time) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	SetArchived(ctx context.Context, id int, archived bool) error
	// DeleteCascade removes the tournament and its registrations in one
	// transaction.
	DeleteCascade(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, game_name, location, date, max_teams, archived, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, game_name, location, date, max_teams)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, archived, created_at`

	return r.db.QueryRowContext(ctx, query,
		tournament.Name,
		tournament.GameName,
		tournament.Location,
		tournament.Date,
		tournament.MaxTeams,
	).Scan(&tournament.ID, &tournament.Archived, &tournament.CreatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTournamentRepository) FindLatestByLocation(ctx context.Context, location models.TournamentLocation, now time.Time) (*models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE location = $1 AND archived = FALSE AND date >= $2
		ORDER BY date DESC
		LIMIT 1`
	return r.scanTournament(r.db.QueryRowContext(ctx, query, location, now))
}

func (r *postgresTournamentRepository) ListUpcoming(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE archived = FALSE AND date >= $1
		ORDER BY date ASC`
	return r.listTournaments(ctx, query, now)
}

// ListGameNames returns the distinct game categories known to the league.
func (r *postgresTournamentRepository) ListGameNames(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT game_name FROM tournaments ORDER BY game_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]string, 0)
	for rows.Next() {
		var game string
		if err := rows.Scan(&game); err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *postgresTournamentRepository) ListExpiredUnarchived(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	query := `
		SELECT ` + tournamentColumns + `
		FROM tournaments
		WHERE archived = FALSE AND date < $1
		ORDER BY date ASC`
	return r.listTournaments(ctx, query, now)
}

func (r *postgresTournamentRepository) Update(ctx context.Context, tournament *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			game_name = $2,
			location = $3,
			date = $4,
			max_teams = $5,
			archived = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		tournament.Name,
		tournament.GameName,
		tournament.Location,
		tournament.Date,
		tournament.MaxTeams,
		tournament.Archived,
		tournament.ID,
	)
	if err != nil {
		return err
	}
	return r.expectRow(result)
}

func (r *postgresTournamentRepository) SetArchived(ctx context.Context, id int, archived bool) error {
	query := `UPDATE tournaments SET archived = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, archived, id)
	if err != nil {
		return err
	}
	return r.expectRow(result)
}

func (r *postgresTournamentRepository) DeleteCascade(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tournament delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE tournament_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete tournament registrations: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	if err := r.expectRow(result); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresTournamentRepository) expectRow(result sql.Result) error {
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *postgresTournamentRepository) scanTournament(row *sql.Row) (*models.Tournament, error) {
	tournament := &models.Tournament{}
	err := row.Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.GameName,
		&tournament.Location,
		&tournament.Date,
		&tournament.MaxTeams,
		&tournament.Archived,
		&tournament.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) listTournaments(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var tournament models.Tournament
		if err := rows.Scan(
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
		tournaments = append(tournaments, tournament)
	}
	return tournaments, rows.Err()
}
