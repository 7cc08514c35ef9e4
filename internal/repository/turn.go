package repository

import (
	"context"
	"fmt"

	"mercari/shopper/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TurnRepository keeps a history of completed turns.
type TurnRepository interface {
	SaveTurn(ctx context.Context, turn *domain.Turn) error
}

// Schema is applied at startup when the history database is enabled.
const Schema = `
CREATE TABLE IF NOT EXISTS turns (
	id          UUID PRIMARY KEY,
	request     TEXT NOT NULL,
	stage       TEXT NOT NULL,
	search      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	data        JSONB NOT NULL
)`

type turnRepository struct {
	db *pgxpool.Pool
}

func NewTurnRepository(db *pgxpool.Pool) TurnRepository {
	return &turnRepository{
		db: db,
	}
}

func (r *turnRepository) SaveTurn(ctx context.Context, turn *domain.Turn) error {
	query := `
	INSERT INTO turns (id, request, stage, search, created_at, data)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO UPDATE SET stage = $3, search = $4, data = $6`
	_, err := r.db.Exec(ctx, query,
		turn.ID,
		turn.Request,
		string(turn.Stage),
		string(turn.Search),
		turn.CreatedAt,
		turn,
	)
	if err != nil {
		return fmt.Errorf("failed to save turn %s: %w", turn.ID, err)
	}

	return nil
}

type noopTurnRepository struct{}

// NewNoopTurnRepository is used when the history database is disabled.
func NewNoopTurnRepository() TurnRepository {
	return noopTurnRepository{}
}

func (noopTurnRepository) SaveTurn(context.Context, *domain.Turn) error {
	return nil
}
