package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
	"github.com/loopwear/marketplace-app/backend/pkg/database"
)

// WalletsRepository persists per-user balances. Balances are only written
// through ApplyDelta, inside the same transaction as the matching ledger
// entry.
type WalletsRepository struct {
	logger *slog.Logger
	db     tx.DBGetter
}

// NewWalletsRepository creates a new wallet repository.
func NewWalletsRepository(logger *slog.Logger, pg *database.Postgres) *WalletsRepository {
	return &WalletsRepository{
		logger: logger,
		db:     pg.DBGetter,
	}
}

// Ensure creates the wallet row if it does not exist yet. Idempotent.
func (r *WalletsRepository) Ensure(ctx context.Context, userID int64) error {
	_, err := r.db(ctx).Exec(ctx,
		"INSERT INTO wallets (user_id, balance) VALUES ($1, 0) ON CONFLICT (user_id) DO NOTHING",
		userID)
	if err != nil {
		return fmt.Errorf("failed to ensure wallet: %w", err)
	}
	return nil
}

// FindByUserID retrieves a wallet. Returns nil when the user has none yet.
func (r *WalletsRepository) FindByUserID(ctx context.Context, userID int64) (*entities.Wallet, error) {
	return r.findOne(ctx, "SELECT user_id, balance, updated_at FROM wallets WHERE user_id = $1", userID)
}

// FindByUserIDForUpdate locks the wallet row, serializing concurrent
// balance mutations for the same user.
func (r *WalletsRepository) FindByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Wallet, error) {
	return r.findOne(ctx, "SELECT user_id, balance, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE", userID)
}

func (r *WalletsRepository) findOne(ctx context.Context, query string, userID int64) (*entities.Wallet, error) {
	var wallet entities.Wallet
	err := r.db(ctx).QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&wallet.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet: %w", err)
	}

	return &wallet, nil
}

// ApplyDelta shifts the balance by the signed amount.
func (r *WalletsRepository) ApplyDelta(ctx context.Context, userID, delta int64) error {
	_, err := r.db(ctx).Exec(ctx,
		"UPDATE wallets SET balance = balance + $1, updated_at = NOW() WHERE user_id = $2",
		delta, userID)
	if err != nil {
		return fmt.Errorf("failed to apply wallet delta: %w", err)
	}
	return nil
}
