package repositories

import (
	"context"

	"portfolio-tracker/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HoldingRepository persists holdings scoped to their owner.
type HoldingRepository interface {
	// Create stores h and sets its ID and CreatedAt.
	Create(ctx context.Context, h *models.Holding) error
	// ListByOwner returns the owner's holdings in creation order.
	ListByOwner(ctx context.Context, owner string) ([]models.Holding, error)
	// DeleteByIDAndOwner removes the holding only when owner owns it and returns the
	// number of removed rows. 0 covers both a missing and a foreign id.
	DeleteByIDAndOwner(ctx context.Context, id int64, owner string) (int64, error)
}

type holdingRepo struct {
	db *pgxpool.Pool
}

func NewHoldingRepository(db *pgxpool.Pool) HoldingRepository {
	return &holdingRepo{db: db}
}

func (r *holdingRepo) Create(ctx context.Context, h *models.Holding) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO holdings (user_id, symbol, name, shares, avg_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		h.UserID, h.Symbol, h.Name, h.Shares, h.AvgPrice,
	).Scan(&h.ID, &h.CreatedAt)
}

func (r *holdingRepo) ListByOwner(ctx context.Context, owner string) ([]models.Holding, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, symbol, name, shares, avg_price, created_at
		FROM holdings
		WHERE user_id = $1
		ORDER BY id ASC`,
		owner)
	if err != nil {
		return nil, err
	}
	holdings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Holding])
	if err != nil {
		return nil, err
	}
	if holdings == nil {
		holdings = []models.Holding{}
	}
	return holdings, nil
}

func (r *holdingRepo) DeleteByIDAndOwner(ctx context.Context, id int64, owner string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM holdings WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
