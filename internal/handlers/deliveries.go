package handlers

import (
	"context"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type DeliveryService interface {
	GetDelivery(ctx context.Context, deliveryID int64) (*entities.Delivery, error)
	GetWorkerDeliveries(ctx context.Context, workerID int64) ([]entities.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, deliveryID int64, target entities.DeliveryStatus) (*entities.Delivery, error)
	SetPickupOtp(ctx context.Context, deliveryID int64, code string) error
	VerifyPickupOtp(ctx context.Context, deliveryID int64, code string) (bool, error)
	SetDeliveryOtp(ctx context.Context, deliveryID int64, code string) error
	VerifyDeliveryOtp(ctx context.Context, deliveryID int64, code string) (bool, error)
	AddPickupPhotos(ctx context.Context, deliveryID int64, urls []string) ([]entities.DeliveryPhoto, error)
	AddDeliveryPhotos(ctx context.Context, deliveryID int64, urls []string) ([]entities.DeliveryPhoto, error)
}
