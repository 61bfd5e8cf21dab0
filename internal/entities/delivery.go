package entities

import "time"

// DeliveryStatus is the physical handoff job lifecycle state.
type DeliveryStatus string

const (
	DeliveryPendingPickup DeliveryStatus = "PENDING_PICKUP"
	DeliveryAssigned      DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp      DeliveryStatus = "PICKED_UP"
	DeliveryInTransit     DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered     DeliveryStatus = "DELIVERED"
	DeliveryCompleted     DeliveryStatus = "COMPLETED"
)

// deliverySuccessor encodes the strictly linear delivery lifecycle.
var deliverySuccessor = map[DeliveryStatus]DeliveryStatus{
	DeliveryPendingPickup: DeliveryAssigned,
	DeliveryAssigned:      DeliveryPickedUp,
	DeliveryPickedUp:      DeliveryInTransit,
	DeliveryInTransit:     DeliveryDelivered,
	DeliveryDelivered:     DeliveryCompleted,
}

// Next returns the single allowed successor of s, if there is one.
func (s DeliveryStatus) Next() (DeliveryStatus, bool) {
	next, ok := deliverySuccessor[s]
	return next, ok
}

// Delivery is the pickup/drop-off job fulfilling exactly one order.
// The OTP fields hold single-use handoff codes and are cleared on
// successful verification.
type Delivery struct {
	ID                int64          `db:"id" json:"id"`
	OrderID           int64          `db:"order_id" json:"order_id"`
	Status            DeliveryStatus `db:"status" json:"status"`
	AssignedToID      *int64         `db:"assigned_to_id" json:"assigned_to_id"`
	PickupAddressID   int64          `db:"pickup_address_id" json:"pickup_address_id"`
	DeliveryAddressID int64          `db:"delivery_address_id" json:"delivery_address_id"`
	PickupOtp         *string        `db:"pickup_otp" json:"-"`
	DeliveryOtp       *string        `db:"delivery_otp" json:"-"`
	PickedAt          *time.Time     `db:"picked_at" json:"picked_at"`
	DeliveredAt       *time.Time     `db:"delivered_at" json:"delivered_at"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// Photo attachment kinds on a delivery.
const (
	PhotoKindPickup   = "pickup"
	PhotoKindDelivery = "delivery"
)

// DeliveryPhoto is proof-of-handoff imagery attached by the worker.
type DeliveryPhoto struct {
	ID         int64     `db:"id" json:"id"`
	DeliveryID int64     `db:"delivery_id" json:"delivery_id"`
	Kind       string    `db:"kind" json:"kind"`
	URL        string    `db:"url" json:"url"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
