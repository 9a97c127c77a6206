package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dias09/esports-hub/models"
	"github.com/lib/pq"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamNameConflict   = errors.New("team name conflict")
	ErrTeamCaptainInvalid = errors.New("team captain invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListAll(ctx context.Context) ([]models.Team, error)
	ListByCaptainID(ctx context.Context, captainID int) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateRecord(ctx context.Context, id, points, wins int) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	// DeleteCascade removes the team together with its players and
	// registrations inside one transaction.
	DeleteCascade(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `id, name, captain_id, captain_phone, game_name, points, wins, logo_key, created_at`

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, captain_id, captain_phone, game_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, points, wins, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.CaptainID,
		team.CaptainPhone,
		team.GameName,
	).Scan(&team.ID, &team.Points, &team.Wins, &team.CreatedAt)

	if err != nil {
		return mapTeamError(err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.scanTeam(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresTeamRepository) ListAll(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY id ASC`
	return r.listTeams(ctx, query)
}

func (r *postgresTeamRepository) ListByCaptainID(ctx context.Context, captainID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE captain_id = $1 ORDER BY created_at ASC`
	return r.listTeams(ctx, query, captainID)
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams SET
			name = $1,
			captain_phone = $2,
			game_name = $3
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.CaptainPhone,
		team.GameName,
		team.ID,
	)
	if err != nil {
		return mapTeamError(err)
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) UpdateRecord(ctx context.Context, id, points, wins int) error {
	query := `UPDATE teams SET points = $1, wins = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, points, wins, id)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	query := `UPDATE teams SET logo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, logoKey, id)
	if err != nil {
		return err
	}

	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *postgresTeamRepository) DeleteCascade(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin team delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM registrations WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete team registrations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM players WHERE team_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete team players: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	rowsAffected, err := checkRowsAffected(result)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}

	return tx.Commit()
}

func (r *postgresTeamRepository) scanTeam(row *sql.Row) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.CaptainID,
		&team.CaptainPhone,
		&team.GameName,
		&team.Points,
		&team.Wins,
		&team.LogoKey,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
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
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func mapTeamError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			// Unique index on LOWER(name) makes the conflict case-insensitive.
			if pqErr.Constraint == "teams_name_lower_key" {
				return ErrTeamNameConflict
			}
		case "23503": // foreign_key_violation
			if pqErr.Constraint == "teams_captain_id_fkey" {
				return ErrTeamCaptainInvalid
			}
		}
	}
	return err
}
