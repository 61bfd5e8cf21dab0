package entities

import "time"

// OrderStatus is the purchase/rental order lifecycle state.
type OrderStatus string

const (
	OrderCreated           OrderStatus = "CREATED"
	OrderPickupAssigned    OrderStatus = "PICKUP_ASSIGNED"
	OrderPickedUp          OrderStatus = "PICKED_UP"
	OrderInTransit         OrderStatus = "IN_TRANSIT"
	OrderDeliveredForTryon OrderStatus = "DELIVERED_FOR_TRYON"
	OrderVerifiedOK        OrderStatus = "VERIFIED_OK"
	OrderReturnScheduled   OrderStatus = "RETURN_SCHEDULED"
	OrderReturned          OrderStatus = "RETURNED"
	OrderCompleted         OrderStatus = "COMPLETED"
	OrderCancelled         OrderStatus = "CANCELLED"
)

// orderTransitions is the single canonical adjacency table for order status
// updates. PICKUP_ASSIGNED is deliberately absent from CREATED's successors:
// it is only reachable through delivery assignment, which also binds a worker.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderCreated:           {},
	OrderPickupAssigned:    {OrderPickedUp},
	OrderPickedUp:          {OrderInTransit},
	OrderInTransit:         {OrderDeliveredForTryon},
	OrderDeliveredForTryon: {OrderVerifiedOK, OrderReturnScheduled},
	OrderVerifiedOK:        {OrderCompleted},
	OrderReturnScheduled:   {OrderReturned},
	OrderReturned:          {OrderCompleted},
	OrderCompleted:         {},
	OrderCancelled:         {},
}

// CanTransitionTo reports whether target is an allowed successor of s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s == OrderCreated || s == OrderPickupAssigned
}

// DeliveryProjection returns the delivery status an order status forces on
// the linked delivery job, if any.
func (s OrderStatus) DeliveryProjection() (DeliveryStatus, bool) {
	switch s {
	case OrderPickedUp:
		return DeliveryPickedUp, true
	case OrderDeliveredForTryon:
		return DeliveryDelivered, true
	case OrderCompleted:
		return DeliveryCompleted, true
	default:
		return "", false
	}
}

// Order is a buyer's commitment to rent or purchase a listed item.
// TotalAmount is in minor currency units.
type Order struct {
	ID          int64       `db:"id" json:"id"`
	BuyerID     int64       `db:"buyer_id" json:"buyer_id"`
	ListingID   int64       `db:"listing_id" json:"listing_id"`
	Status      OrderStatus `db:"status" json:"status"`
	TotalAmount int64       `db:"total_amount" json:"total_amount"`
	IsActive    bool        `db:"is_active" json:"is_active"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderEvent is broadcast to websocket subscribers after a committed
// status change.
type OrderEvent struct {
	OrderID int64       `json:"order_id"`
	Status  OrderStatus `json:"status"`
	At      time.Time   `json:"at"`
}
