package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	tx "github.com/Thiht/transactor/pgx"
	"github.com/jackc/pgx/v5"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
	"github.com/loopwear/marketplace-app/backend/pkg/database"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const orderColumns = "id, buyer_id, listing_id, status, total_amount, is_active, created_at, updated_at"

// OrdersRepository persists orders. Guarded updates keyed on the current
// status make concurrent transitions safe under the surrounding transaction.
type OrdersRepository struct {
	logger *slog.Logger
	db     tx.DBGetter
}

func NewOrdersRepository(logger *slog.Logger, pg *database.Postgres) *OrdersRepository {
	return &OrdersRepository{logger: logger, db: pg.DBGetter}
}

// Insert creates a new order in CREATED.
func (r *OrdersRepository) Insert(ctx context.Context, buyerID, listingID, totalAmount int64) (*entities.Order, error) {
	rows, err := r.db(ctx).Query(ctx,
		`INSERT INTO orders (buyer_id, listing_id, status, total_amount)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+orderColumns,
		buyerID, listingID, entities.OrderCreated, totalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Order])
	if err != nil {
		return nil, fmt.Errorf("failed to collect inserted order: %w", err)
	}

	return &order, nil
}

// FindByID retrieves an active order. Returns nil when missing or inactive.
func (r *OrdersRepository) FindByID(ctx context.Context, id int64) (*entities.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 AND is_active", id)
}

// FindByIDForUpdate locks an active order row for the current transaction.
func (r *OrdersRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 AND is_active FOR UPDATE", id)
}

// FindAnyByIDForUpdate locks an order row regardless of is_active. Used by
// cancellation, which must distinguish an already-cancelled order from a
// missing one.
func (r *OrdersRepository) FindAnyByIDForUpdate(ctx context.Context, id int64) (*entities.Order, error) {
	return r.findOne(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1 FOR UPDATE", id)
}

func (r *OrdersRepository) findOne(ctx context.Context, query string, id int64) (*entities.Order, error) {
	rows, err := r.db(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	order, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Order])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to collect order row: %w", err)
	}

	return &order, nil
}

// UpdateStatus moves an order from one status to another. The guard on the
// current status turns concurrent transition attempts into no-ops.
func (r *OrdersRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.OrderStatus) (bool, error) {
	cmd, err := r.db(ctx).Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3 AND is_active",
		to, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Cancel marks the order CANCELLED and deactivates it, removing it from
// default queries.
func (r *OrdersRepository) Cancel(ctx context.Context, id int64) error {
	_, err := r.db(ctx).Exec(ctx,
		"UPDATE orders SET status = $1, is_active = false, updated_at = NOW() WHERE id = $2",
		entities.OrderCancelled, id)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	return nil
}

// FindByBuyer retrieves a buyer's active orders, newest first.
func (r *OrdersRepository) FindByBuyer(ctx context.Context, buyerID int64) ([]entities.Order, error) {
	query, args, err := psql.Select(orderColumns).
		From("orders").
		Where(sq.Eq{"buyer_id": buyerID, "is_active": true}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build buyer orders query: %w", err)
	}

	return r.findMany(ctx, query, args...)
}

// FindPendingDeliveries retrieves active orders still moving through the
// physical handoff pipeline.
func (r *OrdersRepository) FindPendingDeliveries(ctx context.Context) ([]entities.Order, error) {
	query, args, err := psql.Select(orderColumns).
		From("orders").
		Where(sq.Eq{"is_active": true}).
		Where(sq.Eq{"status": []entities.OrderStatus{
			entities.OrderCreated,
			entities.OrderPickupAssigned,
			entities.OrderPickedUp,
			entities.OrderInTransit,
		}}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending deliveries query: %w", err)
	}

	return r.findMany(ctx, query, args...)
}

func (r *OrdersRepository) findMany(ctx context.Context, query string, args ...any) ([]entities.Order, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.Order])
	if err != nil {
		r.logger.Error("failed to collect orders rows", "error", err)
		return nil, err
	}

	return orders, nil
}

// CancelStale cancels CREATED orders older than the cutoff. Returns the
// number of orders cancelled.
func (r *OrdersRepository) CancelStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cmd, err := r.db(ctx).Exec(ctx,
		`UPDATE orders SET status = $1, is_active = false, updated_at = NOW()
		 WHERE status = $2 AND is_active AND created_at < $3`,
		entities.OrderCancelled, entities.OrderCreated, time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to cancel stale orders: %w", err)
	}
	return cmd.RowsAffected(), nil
}
