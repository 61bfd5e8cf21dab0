package usecases

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/loopwear/marketplace-app/backend/internal/core/ports"
	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type DeliveriesRepository interface {
	Insert(ctx context.Context, orderID, pickupAddressID, deliveryAddressID int64) (*entities.Delivery, error)
	FindByID(ctx context.Context, id int64) (*entities.Delivery, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error)
	FindByOrderID(ctx context.Context, orderID int64) (*entities.Delivery, error)
	FindByWorker(ctx context.Context, workerID int64) ([]entities.Delivery, error)
	Assign(ctx context.Context, orderID, workerID int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, from, to entities.DeliveryStatus) (bool, error)
	ProjectStatus(ctx context.Context, orderID int64, status entities.DeliveryStatus) error
	SetPickupOtp(ctx context.Context, id int64, code string) (bool, error)
	SetDeliveryOtp(ctx context.Context, id int64, code string) (bool, error)
	ConsumePickupOtp(ctx context.Context, id int64, code string) (bool, error)
	ConsumeDeliveryOtp(ctx context.Context, id int64, code string) (bool, error)
	AddPhotos(ctx context.Context, deliveryID int64, kind string, urls []string) ([]entities.DeliveryPhoto, error)
	FindPhotos(ctx context.Context, deliveryID int64) ([]entities.DeliveryPhoto, error)
}

// DeliveryService drives the strictly linear delivery state machine and the
// OTP handoff gate.
type DeliveryService struct {
	logger *slog.Logger

	deliveries DeliveriesRepository
	transactor ports.Transactor
}

func NewDeliveryService(logger *slog.Logger, deliveries DeliveriesRepository, transactor ports.Transactor) *DeliveryService {
	return &DeliveryService{
		logger:     logger,
		deliveries: deliveries,
		transactor: transactor,
	}
}

// GetDelivery retrieves a delivery job.
func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryID int64) (*entities.Delivery, error) {
	delivery, err := s.deliveries.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: delivery %d", entities.ErrNotFound, deliveryID)
	}
	return delivery, nil
}

// GetWorkerDeliveries lists a worker's assignments.
func (s *DeliveryService) GetWorkerDeliveries(ctx context.Context, workerID int64) ([]entities.Delivery, error) {
	return s.deliveries.FindByWorker(ctx, workerID)
}

// UpdateDeliveryStatus moves a delivery to target, which must be the single
// allowed successor of its current status. picked_at and delivered_at are
// stamped on entering PICKED_UP and DELIVERED.
func (s *DeliveryService) UpdateDeliveryStatus(ctx context.Context, deliveryID int64, target entities.DeliveryStatus) (*entities.Delivery, error) {
	var updated *entities.Delivery

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		delivery, err := s.deliveries.FindByIDForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if delivery == nil {
			return fmt.Errorf("%w: delivery %d", entities.ErrNotFound, deliveryID)
		}

		next, ok := delivery.Status.Next()
		if !ok || next != target {
			return fmt.Errorf("%w: delivery %d %s -> %s", entities.ErrInvalidTransition, deliveryID, delivery.Status, target)
		}

		ok, err = s.deliveries.UpdateStatus(ctx, deliveryID, delivery.Status, target)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: delivery %d %s -> %s", entities.ErrInvalidTransition, deliveryID, delivery.Status, target)
		}

		delivery.Status = target
		updated = delivery
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Delivery status updated", "delivery_id", deliveryID, "status", target)
	return updated, nil
}

// SetPickupOtp stores a single-use pickup handoff code on the delivery.
func (s *DeliveryService) SetPickupOtp(ctx context.Context, deliveryID int64, code string) error {
	ok, err := s.deliveries.SetPickupOtp(ctx, deliveryID, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: delivery %d", entities.ErrNotFound, deliveryID)
	}
	return nil
}

// VerifyPickupOtp checks the pickup code. On match the stored code is
// cleared in the same statement, so it cannot be replayed. A wrong code or
// missing delivery returns false with no side effect.
func (s *DeliveryService) VerifyPickupOtp(ctx context.Context, deliveryID int64, code string) (bool, error) {
	ok, err := s.deliveries.ConsumePickupOtp(ctx, deliveryID, code)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("Pickup OTP verified", "delivery_id", deliveryID)
	}
	return ok, nil
}

// SetDeliveryOtp stores a single-use drop-off handoff code on the delivery.
func (s *DeliveryService) SetDeliveryOtp(ctx context.Context, deliveryID int64, code string) error {
	ok, err := s.deliveries.SetDeliveryOtp(ctx, deliveryID, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: delivery %d", entities.ErrNotFound, deliveryID)
	}
	return nil
}

// VerifyDeliveryOtp checks the drop-off code with the same single-use
// semantics as VerifyPickupOtp.
func (s *DeliveryService) VerifyDeliveryOtp(ctx context.Context, deliveryID int64, code string) (bool, error) {
	ok, err := s.deliveries.ConsumeDeliveryOtp(ctx, deliveryID, code)
	if err != nil {
		return false, err
	}
	if ok {
		s.logger.Info("Delivery OTP verified", "delivery_id", deliveryID)
	}
	return ok, nil
}

// AddPickupPhotos attaches proof-of-pickup photos.
func (s *DeliveryService) AddPickupPhotos(ctx context.Context, deliveryID int64, urls []string) ([]entities.DeliveryPhoto, error) {
	return s.addPhotos(ctx, deliveryID, entities.PhotoKindPickup, urls)
}

// AddDeliveryPhotos attaches proof-of-delivery photos.
func (s *DeliveryService) AddDeliveryPhotos(ctx context.Context, deliveryID int64, urls []string) ([]entities.DeliveryPhoto, error) {
	return s.addPhotos(ctx, deliveryID, entities.PhotoKindDelivery, urls)
}

func (s *DeliveryService) addPhotos(ctx context.Context, deliveryID int64, kind string, urls []string) ([]entities.DeliveryPhoto, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no photo urls for delivery %d", entities.ErrInvalidInput, deliveryID)
	}

	delivery, err := s.deliveries.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, fmt.Errorf("%w: delivery %d", entities.ErrNotFound, deliveryID)
	}

	return s.deliveries.AddPhotos(ctx, deliveryID, kind, urls)
}

// GenerateOtp produces a numeric handoff code from crypto/rand.
func GenerateOtp() (string, error) {
	code := make([]byte, ports.OtpLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
