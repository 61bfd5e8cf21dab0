package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	tx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
	"github.com/loopwear/marketplace-app/backend/pkg/database"
)

const transactionColumns = "id, user_id, order_id, amount, type, provider, provider_id, status, created_at"

// TransactionsRepository persists the append-only ledger. Rows are never
// updated or deleted.
type TransactionsRepository struct {
	logger *slog.Logger
	db     tx.DBGetter
}

// NewTransactionsRepository creates a new ledger repository.
func NewTransactionsRepository(logger *slog.Logger, pg *database.Postgres) *TransactionsRepository {
	return &TransactionsRepository{
		logger: logger,
		db:     pg.DBGetter,
	}
}

// Insert appends a ledger entry.
func (r *TransactionsRepository) Insert(ctx context.Context, t entities.Transaction) (*entities.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		`INSERT INTO transactions (user_id, order_id, amount, type, provider, provider_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+transactionColumns,
		t.UserID, t.OrderID, t.Amount, t.Type, t.Provider, t.ProviderID, t.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	inserted, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Transaction])
	if err != nil {
		return nil, fmt.Errorf("failed to collect inserted transaction: %w", err)
	}

	return &inserted, nil
}

// FindByProvider looks up a ledger entry by its external idempotency pair.
// Returns nil when no such entry exists.
func (r *TransactionsRepository) FindByProvider(ctx context.Context, provider, providerID string) (*entities.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE provider = $1 AND provider_id = $2",
		provider, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction by provider: %w", err)
	}

	transaction, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction row: %w", err)
	}

	return &transaction, nil
}

// FindByID retrieves a single ledger entry. Returns nil when missing.
func (r *TransactionsRepository) FindByID(ctx context.Context, id int64) (*entities.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	transaction, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Transaction])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to collect transaction row: %w", err)
	}

	return &transaction, nil
}

// FindByUser retrieves all ledger entries for a user, newest first.
func (r *TransactionsRepository) FindByUser(ctx context.Context, userID int64) ([]entities.Transaction, error) {
	query, args, err := psql.Select(transactionColumns).
		From("transactions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user transactions query: %w", err)
	}

	return r.findMany(ctx, query, args...)
}

// FindByOrder retrieves all ledger entries tied to an order, newest first.
func (r *TransactionsRepository) FindByOrder(ctx context.Context, orderID int64) ([]entities.Transaction, error) {
	query, args, err := psql.Select(transactionColumns).
		From("transactions").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build order transactions query: %w", err)
	}

	return r.findMany(ctx, query, args...)
}

func (r *TransactionsRepository) findMany(ctx context.Context, query string, args ...any) ([]entities.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}

	transactions, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.Transaction])
	if err != nil {
		r.logger.Error("failed to collect transactions rows", "error", err)
		return nil, err
	}

	return transactions, nil
}
