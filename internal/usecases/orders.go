package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loopwear/marketplace-app/backend/internal/core/ports"
	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type OrdersRepository interface {
	Insert(ctx context.Context, buyerID, listingID, totalAmount int64) (*entities.Order, error)
	FindByID(ctx context.Context, id int64) (*entities.Order, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entities.Order, error)
	FindAnyByIDForUpdate(ctx context.Context, id int64) (*entities.Order, error)
	UpdateStatus(ctx context.Context, id int64, from, to entities.OrderStatus) (bool, error)
	Cancel(ctx context.Context, id int64) error
	FindByBuyer(ctx context.Context, buyerID int64) ([]entities.Order, error)
	FindPendingDeliveries(ctx context.Context) ([]entities.Order, error)
	CancelStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// OrderService drives the order state machine. Every transition runs inside
// one database transaction together with its delivery projection, so no
// reader ever observes the order updated without its delivery.
type OrderService struct {
	logger *slog.Logger

	orders       OrdersRepository
	deliveries   DeliveriesRepository
	transactions TransactionsRepository
	transactor   ports.Transactor
	events       ports.OrderEventPublisher
}

func NewOrderService(
	logger *slog.Logger,
	orders OrdersRepository,
	deliveries DeliveriesRepository,
	transactions TransactionsRepository,
	transactor ports.Transactor,
	events ports.OrderEventPublisher,
) *OrderService {
	return &OrderService{
		logger:       logger,
		orders:       orders,
		deliveries:   deliveries,
		transactions: transactions,
		transactor:   transactor,
		events:       events,
	}
}

// CreateOrder creates the order, its delivery job in PENDING_PICKUP and the
// initial HOLD ledger entry as one atomic unit.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID, listingID, pickupAddressID, deliveryAddressID, totalAmount int64) (*entities.Order, *entities.Delivery, error) {
	if totalAmount <= 0 {
		return nil, nil, fmt.Errorf("%w: total amount %d", entities.ErrInvalidAmount, totalAmount)
	}

	var (
		order    *entities.Order
		delivery *entities.Delivery
	)

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error

		order, err = s.orders.Insert(ctx, buyerID, listingID, totalAmount)
		if err != nil {
			return err
		}

		delivery, err = s.deliveries.Insert(ctx, order.ID, pickupAddressID, deliveryAddressID)
		if err != nil {
			return err
		}

		// Funds reservation for the order; the provider pair makes a retried
		// creation callback idempotent downstream.
		holdRef := fmt.Sprintf("hold_%d", order.ID)
		_, err = s.transactions.Insert(ctx, entities.Transaction{
			UserID:     buyerID,
			OrderID:    &order.ID,
			Amount:     totalAmount,
			Type:       entities.TransactionHold,
			Provider:   entities.ProviderSystem,
			ProviderID: &holdRef,
			Status:     entities.TransactionCompleted,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Order created", "order_id", order.ID, "buyer_id", buyerID, "amount", totalAmount)
	s.publish(order.ID, order.Status)

	return order, delivery, nil
}

// GetOrder retrieves an active order.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*entities.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order %d", entities.ErrNotFound, orderID)
	}
	return order, nil
}

// GetBuyerOrders lists a buyer's active orders.
func (s *OrderService) GetBuyerOrders(ctx context.Context, buyerID int64) ([]entities.Order, error) {
	return s.orders.FindByBuyer(ctx, buyerID)
}

// TransitionOrder moves an order to target if the adjacency table allows it,
// propagating the delivery projection in the same transaction.
func (s *OrderService) TransitionOrder(ctx context.Context, orderID int64, target entities.OrderStatus) (*entities.Order, error) {
	var updated *entities.Order

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: order %d", entities.ErrNotFound, orderID)
		}

		if !order.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: order %d %s -> %s", entities.ErrInvalidTransition, orderID, order.Status, target)
		}

		ok, err := s.orders.UpdateStatus(ctx, orderID, order.Status, target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %d %s -> %s", entities.ErrInvalidTransition, orderID, order.Status, target)
		}

		if projection, needed := target.DeliveryProjection(); needed {
			if err = s.deliveries.ProjectStatus(ctx, orderID, projection); err != nil {
				return err
			}
		}

		order.Status = target
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order status updated", "order_id", orderID, "status", target)
	s.publish(orderID, target)

	return updated, nil
}

// AssignDelivery binds a worker to the order's delivery job and moves the
// order to PICKUP_ASSIGNED, atomically. The only way into PICKUP_ASSIGNED.
func (s *OrderService) AssignDelivery(ctx context.Context, orderID, workerID int64) (*entities.Order, error) {
	var updated *entities.Order

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: order %d", entities.ErrNotFound, orderID)
		}

		if order.Status != entities.OrderCreated {
			return fmt.Errorf("%w: order %d cannot assign delivery from %s", entities.ErrInvalidTransition, orderID, order.Status)
		}

		if _, err = s.orders.UpdateStatus(ctx, orderID, entities.OrderCreated, entities.OrderPickupAssigned); err != nil {
			return err
		}

		ok, err := s.deliveries.Assign(ctx, orderID, workerID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: delivery for order %d is not pending pickup", entities.ErrInvalidTransition, orderID)
		}

		order.Status = entities.OrderPickupAssigned
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Delivery assigned", "order_id", orderID, "worker_id", workerID)
	s.publish(orderID, entities.OrderPickupAssigned)

	return updated, nil
}

// CancelOrder cancels an order still in CREATED or PICKUP_ASSIGNED and
// deactivates it. A repeated cancel fails with ErrInvalidTransition.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) error {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orders.FindAnyByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return fmt.Errorf("%w: order %d", entities.ErrNotFound, orderID)
		}

		if !order.Status.Cancellable() {
			return fmt.Errorf("%w: order %d cannot be cancelled from %s", entities.ErrInvalidTransition, orderID, order.Status)
		}

		return s.orders.Cancel(ctx, orderID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Order cancelled", "order_id", orderID)
	s.publish(orderID, entities.OrderCancelled)

	return nil
}

// GetPendingDeliveries lists active orders still moving through the handoff
// pipeline.
func (s *OrderService) GetPendingDeliveries(ctx context.Context) ([]entities.Order, error) {
	return s.orders.FindPendingDeliveries(ctx)
}

// CancelStaleOrders cancels CREATED orders older than the cutoff. Used by
// the expiry worker.
func (s *OrderService) CancelStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.orders.CancelStale(ctx, olderThan)
}

func (s *OrderService) publish(orderID int64, status entities.OrderStatus) {
	if s.events == nil {
		return
	}
	s.events.PublishOrderEvent(entities.OrderEvent{
		OrderID: orderID,
		Status:  status,
		At:      time.Now(),
	})
}
