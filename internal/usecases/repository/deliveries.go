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

const deliveryColumns = "id, order_id, status, assigned_to_id, pickup_address_id, delivery_address_id, " +
	"pickup_otp, delivery_otp, picked_at, delivered_at, created_at, updated_at"

// DeliveriesRepository persists delivery jobs and their handoff codes.
type DeliveriesRepository struct {
	logger *slog.Logger
	db     tx.DBGetter
}

func NewDeliveriesRepository(logger *slog.Logger, pg *database.Postgres) *DeliveriesRepository {
	return &DeliveriesRepository{logger: logger, db: pg.DBGetter}
}

// Insert creates the delivery job for an order in PENDING_PICKUP.
func (r *DeliveriesRepository) Insert(ctx context.Context, orderID, pickupAddressID, deliveryAddressID int64) (*entities.Delivery, error) {
	rows, err := r.db(ctx).Query(ctx,
		`INSERT INTO deliveries (order_id, status, pickup_address_id, delivery_address_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+deliveryColumns,
		orderID, entities.DeliveryPendingPickup, pickupAddressID, deliveryAddressID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert delivery: %w", err)
	}

	delivery, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Delivery])
	if err != nil {
		return nil, fmt.Errorf("failed to collect inserted delivery: %w", err)
	}

	return &delivery, nil
}

// FindByID retrieves a delivery. Returns nil when missing.
func (r *DeliveriesRepository) FindByID(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.findOne(ctx, "SELECT "+deliveryColumns+" FROM deliveries WHERE id = $1", id)
}

// FindByIDForUpdate locks a delivery row for the current transaction.
func (r *DeliveriesRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.findOne(ctx, "SELECT "+deliveryColumns+" FROM deliveries WHERE id = $1 FOR UPDATE", id)
}

// FindByOrderID retrieves the delivery job linked to an order.
func (r *DeliveriesRepository) FindByOrderID(ctx context.Context, orderID int64) (*entities.Delivery, error) {
	return r.findOne(ctx, "SELECT "+deliveryColumns+" FROM deliveries WHERE order_id = $1", orderID)
}

func (r *DeliveriesRepository) findOne(ctx context.Context, query string, id int64) (*entities.Delivery, error) {
	rows, err := r.db(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery: %w", err)
	}

	delivery, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entities.Delivery])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to collect delivery row: %w", err)
	}

	return &delivery, nil
}

// FindByWorker retrieves a worker's assignments, newest first.
func (r *DeliveriesRepository) FindByWorker(ctx context.Context, workerID int64) ([]entities.Delivery, error) {
	query, args, err := psql.Select(deliveryColumns).
		From("deliveries").
		Where(sq.Eq{"assigned_to_id": workerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build worker deliveries query: %w", err)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query worker deliveries: %w", err)
	}

	deliveries, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.Delivery])
	if err != nil {
		r.logger.Error("failed to collect deliveries rows", "error", err)
		return nil, err
	}

	return deliveries, nil
}

// Assign binds a worker to the order's delivery job. Guarded on
// PENDING_PICKUP so a second assignment attempt does not succeed.
func (r *DeliveriesRepository) Assign(ctx context.Context, orderID, workerID int64) (bool, error) {
	cmd, err := r.db(ctx).Exec(ctx,
		`UPDATE deliveries SET assigned_to_id = $1, status = $2, updated_at = NOW()
		 WHERE order_id = $3 AND status = $4`,
		workerID, entities.DeliveryAssigned, orderID, entities.DeliveryPendingPickup)
	if err != nil {
		return false, fmt.Errorf("failed to assign delivery: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdateStatus moves a delivery to its successor status, stamping picked_at
// or delivered_at when the new status calls for it. Guarded on the current
// status.
func (r *DeliveriesRepository) UpdateStatus(ctx context.Context, id int64, from, to entities.DeliveryStatus) (bool, error) {
	builder := r.statusUpdate(to).Where(sq.Eq{"id": id, "status": from})

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build delivery status update: %w", err)
	}

	cmd, err := r.db(ctx).Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update delivery status: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ProjectStatus applies the order machine's projection onto the linked
// delivery, keyed by order id. Unlike UpdateStatus it is not guarded: the
// delivery lifecycle is a strict projection of the order's, and the order
// row lock already serializes the joint update.
func (r *DeliveriesRepository) ProjectStatus(ctx context.Context, orderID int64, status entities.DeliveryStatus) error {
	query, args, err := r.statusUpdate(status).Where(sq.Eq{"order_id": orderID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delivery projection: %w", err)
	}

	if _, err = r.db(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to project delivery status: %w", err)
	}
	return nil
}

func (r *DeliveriesRepository) statusUpdate(status entities.DeliveryStatus) sq.UpdateBuilder {
	builder := psql.Update("deliveries").
		Set("status", status).
		Set("updated_at", time.Now())

	switch status {
	case entities.DeliveryPickedUp:
		builder = builder.Set("picked_at", time.Now())
	case entities.DeliveryDelivered:
		builder = builder.Set("delivered_at", time.Now())
	}

	return builder
}

// SetPickupOtp stores the pickup handoff code. Returns false when the
// delivery does not exist.
func (r *DeliveriesRepository) SetPickupOtp(ctx context.Context, id int64, code string) (bool, error) {
	return r.setOtp(ctx, "pickup_otp", id, code)
}

// SetDeliveryOtp stores the drop-off handoff code.
func (r *DeliveriesRepository) SetDeliveryOtp(ctx context.Context, id int64, code string) (bool, error) {
	return r.setOtp(ctx, "delivery_otp", id, code)
}

func (r *DeliveriesRepository) setOtp(ctx context.Context, column string, id int64, code string) (bool, error) {
	cmd, err := r.db(ctx).Exec(ctx,
		"UPDATE deliveries SET "+column+" = $1, updated_at = NOW() WHERE id = $2",
		code, id)
	if err != nil {
		return false, fmt.Errorf("failed to set %s: %w", column, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// ConsumePickupOtp atomically compares and clears the pickup code. A single
// guarded UPDATE makes the verify-then-invalidate step immune to replays.
func (r *DeliveriesRepository) ConsumePickupOtp(ctx context.Context, id int64, code string) (bool, error) {
	return r.consumeOtp(ctx, "pickup_otp", id, code)
}

// ConsumeDeliveryOtp atomically compares and clears the drop-off code.
func (r *DeliveriesRepository) ConsumeDeliveryOtp(ctx context.Context, id int64, code string) (bool, error) {
	return r.consumeOtp(ctx, "delivery_otp", id, code)
}

func (r *DeliveriesRepository) consumeOtp(ctx context.Context, column string, id int64, code string) (bool, error) {
	cmd, err := r.db(ctx).Exec(ctx,
		"UPDATE deliveries SET "+column+" = NULL, updated_at = NOW() WHERE id = $1 AND "+column+" = $2",
		id, code)
	if err != nil {
		return false, fmt.Errorf("failed to consume %s: %w", column, err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AddPhotos attaches handoff photos of the given kind.
func (r *DeliveriesRepository) AddPhotos(ctx context.Context, deliveryID int64, kind string, urls []string) ([]entities.DeliveryPhoto, error) {
	builder := psql.Insert("delivery_photos").Columns("delivery_id", "kind", "url")
	for _, url := range urls {
		builder = builder.Values(deliveryID, kind, url)
	}

	query, args, err := builder.Suffix("RETURNING id, delivery_id, kind, url, created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build photos insert: %w", err)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to insert delivery photos: %w", err)
	}

	photos, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.DeliveryPhoto])
	if err != nil {
		r.logger.Error("failed to collect delivery photos rows", "error", err)
		return nil, err
	}

	return photos, nil
}

// FindPhotos lists all photos attached to a delivery.
func (r *DeliveriesRepository) FindPhotos(ctx context.Context, deliveryID int64) ([]entities.DeliveryPhoto, error) {
	rows, err := r.db(ctx).Query(ctx,
		"SELECT id, delivery_id, kind, url, created_at FROM delivery_photos WHERE delivery_id = $1 ORDER BY id",
		deliveryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query delivery photos: %w", err)
	}

	photos, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.DeliveryPhoto])
	if err != nil {
		r.logger.Error("failed to collect delivery photos rows", "error", err)
		return nil, err
	}

	return photos, nil
}
