package handlers

import (
	"context"
	"time"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type OrderService interface {
	CreateOrder(ctx context.Context, buyerID, listingID, pickupAddressID, deliveryAddressID, totalAmount int64) (*entities.Order, *entities.Delivery, error)
	GetOrder(ctx context.Context, orderID int64) (*entities.Order, error)
	GetBuyerOrders(ctx context.Context, buyerID int64) ([]entities.Order, error)
	TransitionOrder(ctx context.Context, orderID int64, target entities.OrderStatus) (*entities.Order, error)
	AssignDelivery(ctx context.Context, orderID, workerID int64) (*entities.Order, error)
	CancelOrder(ctx context.Context, orderID int64) error
	GetPendingDeliveries(ctx context.Context) ([]entities.Order, error)
	CancelStaleOrders(ctx context.Context, olderThan time.Duration) (int64, error)
}
