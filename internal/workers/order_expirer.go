package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/loopwear/marketplace-app/backend/internal/handlers"
)

// OrderExpirer worker automatically cancels orders that were never assigned
// to a delivery person
type OrderExpirer struct {
	logger       *slog.Logger
	orderService handlers.OrderService

	// Duration after which unassigned orders are considered abandoned
	expirationDuration time.Duration

	// How often to run the expiry sweep
	sweepInterval time.Duration
}

// NewOrderExpirer creates a new order expirer worker
func NewOrderExpirer(
	logger *slog.Logger,
	orderService handlers.OrderService,
	expirationDuration time.Duration,
	sweepInterval time.Duration,
) *OrderExpirer {
	return &OrderExpirer{
		logger:             logger,
		orderService:       orderService,
		expirationDuration: expirationDuration,
		sweepInterval:      sweepInterval,
	}
}

// Start begins the periodic cancellation of abandoned orders
func (oe *OrderExpirer) Start(ctx context.Context) {
	oe.logger.Info("Starting order expirer worker",
		"expiration_time", oe.expirationDuration.String(),
		"sweep_interval", oe.sweepInterval.String())

	// Run an initial sweep immediately
	if err := oe.expireStaleOrders(ctx); err != nil {
		oe.logger.Error("Initial order expiry sweep failed", "error", err)
	}

	// Start the ticker for periodic sweeps
	ticker := time.NewTicker(oe.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			oe.logger.Info("Order expirer worker stopped")
			return
		case <-ticker.C:
			if err := oe.expireStaleOrders(ctx); err != nil {
				oe.logger.Error("Order expiry sweep failed", "error", err)
			}
		}
	}
}

// expireStaleOrders cancels unassigned orders past the expiration window
func (oe *OrderExpirer) expireStaleOrders(ctx context.Context) error {
	oe.logger.Debug("Starting expiry sweep", "older_than", oe.expirationDuration.String())

	count, err := oe.orderService.CancelStaleOrders(ctx, oe.expirationDuration)
	if err != nil {
		return err
	}

	if count > 0 {
		oe.logger.Info("Cancelled stale orders", "count", count, "older_than", oe.expirationDuration.String())
	} else {
		oe.logger.Debug("No stale orders to cancel")
	}

	return nil
}
