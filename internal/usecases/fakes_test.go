package usecases

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransactor serializes callbacks with a mutex, mirroring the row-lock
// serialization the real transactor gets from the database.
type fakeTransactor struct {
	mu sync.Mutex
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []entities.OrderEvent
}

func (p *fakePublisher) PublishOrderEvent(event entities.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *fakePublisher) statuses() []entities.OrderStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]entities.OrderStatus, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Status)
	}
	return out
}

type fakeOrdersRepo struct {
	seq    int64
	orders map[int64]*entities.Order
}

func newFakeOrdersRepo() *fakeOrdersRepo {
	return &fakeOrdersRepo{orders: make(map[int64]*entities.Order)}
}

func (r *fakeOrdersRepo) Insert(_ context.Context, buyerID, listingID, totalAmount int64) (*entities.Order, error) {
	r.seq++
	order := &entities.Order{
		ID:          r.seq,
		BuyerID:     buyerID,
		ListingID:   listingID,
		Status:      entities.OrderCreated,
		TotalAmount: totalAmount,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.orders[order.ID] = order

	copied := *order
	return &copied, nil
}

func (r *fakeOrdersRepo) FindByID(_ context.Context, id int64) (*entities.Order, error) {
	order, ok := r.orders[id]
	if !ok || !order.IsActive {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrdersRepo) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrdersRepo) FindAnyByIDForUpdate(_ context.Context, id int64) (*entities.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrdersRepo) UpdateStatus(_ context.Context, id int64, from, to entities.OrderStatus) (bool, error) {
	order, ok := r.orders[id]
	if !ok || !order.IsActive || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeOrdersRepo) Cancel(_ context.Context, id int64) error {
	order, ok := r.orders[id]
	if !ok {
		return nil
	}
	order.Status = entities.OrderCancelled
	order.IsActive = false
	order.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrdersRepo) FindByBuyer(_ context.Context, buyerID int64) ([]entities.Order, error) {
	var out []entities.Order
	for _, order := range r.orders {
		if order.IsActive && order.BuyerID == buyerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrdersRepo) FindPendingDeliveries(_ context.Context) ([]entities.Order, error) {
	var out []entities.Order
	for _, order := range r.orders {
		if order.IsActive && order.Status != entities.OrderCompleted {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrdersRepo) CancelStale(_ context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	var count int64
	for _, order := range r.orders {
		if order.IsActive && order.Status == entities.OrderCreated && order.CreatedAt.Before(cutoff) {
			order.Status = entities.OrderCancelled
			order.IsActive = false
			count++
		}
	}
	return count, nil
}

type fakeDeliveriesRepo struct {
	seq      int64
	photoSeq int64

	deliveries map[int64]*entities.Delivery
	byOrder    map[int64]int64
	photos     []entities.DeliveryPhoto
}

func newFakeDeliveriesRepo() *fakeDeliveriesRepo {
	return &fakeDeliveriesRepo{
		deliveries: make(map[int64]*entities.Delivery),
		byOrder:    make(map[int64]int64),
	}
}

func (r *fakeDeliveriesRepo) Insert(_ context.Context, orderID, pickupAddressID, deliveryAddressID int64) (*entities.Delivery, error) {
	r.seq++
	delivery := &entities.Delivery{
		ID:                r.seq,
		OrderID:           orderID,
		Status:            entities.DeliveryPendingPickup,
		PickupAddressID:   pickupAddressID,
		DeliveryAddressID: deliveryAddressID,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	r.deliveries[delivery.ID] = delivery
	r.byOrder[orderID] = delivery.ID

	copied := *delivery
	return &copied, nil
}

func (r *fakeDeliveriesRepo) FindByID(_ context.Context, id int64) (*entities.Delivery, error) {
	delivery, ok := r.deliveries[id]
	if !ok {
		return nil, nil
	}
	copied := *delivery
	return &copied, nil
}

func (r *fakeDeliveriesRepo) FindByIDForUpdate(ctx context.Context, id int64) (*entities.Delivery, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeDeliveriesRepo) FindByOrderID(ctx context.Context, orderID int64) (*entities.Delivery, error) {
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *fakeDeliveriesRepo) FindByWorker(_ context.Context, workerID int64) ([]entities.Delivery, error) {
	var out []entities.Delivery
	for _, delivery := range r.deliveries {
		if delivery.AssignedToID != nil && *delivery.AssignedToID == workerID {
			out = append(out, *delivery)
		}
	}
	return out, nil
}

func (r *fakeDeliveriesRepo) Assign(_ context.Context, orderID, workerID int64) (bool, error) {
	id, ok := r.byOrder[orderID]
	if !ok {
		return false, nil
	}
	delivery := r.deliveries[id]
	if delivery.Status != entities.DeliveryPendingPickup {
		return false, nil
	}

	delivery.Status = entities.DeliveryAssigned
	delivery.AssignedToID = &workerID
	delivery.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeDeliveriesRepo) UpdateStatus(_ context.Context, id int64, from, to entities.DeliveryStatus) (bool, error) {
	delivery, ok := r.deliveries[id]
	if !ok || delivery.Status != from {
		return false, nil
	}
	r.applyStatus(delivery, to)
	return true, nil
}

func (r *fakeDeliveriesRepo) ProjectStatus(_ context.Context, orderID int64, status entities.DeliveryStatus) error {
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil
	}
	r.applyStatus(r.deliveries[id], status)
	return nil
}

func (r *fakeDeliveriesRepo) applyStatus(delivery *entities.Delivery, status entities.DeliveryStatus) {
	now := time.Now()
	delivery.Status = status
	delivery.UpdatedAt = now

	switch status {
	case entities.DeliveryPickedUp:
		delivery.PickedAt = &now
	case entities.DeliveryDelivered:
		delivery.DeliveredAt = &now
	}
}

func (r *fakeDeliveriesRepo) SetPickupOtp(_ context.Context, id int64, code string) (bool, error) {
	delivery, ok := r.deliveries[id]
	if !ok {
		return false, nil
	}
	delivery.PickupOtp = &code
	return true, nil
}

func (r *fakeDeliveriesRepo) SetDeliveryOtp(_ context.Context, id int64, code string) (bool, error) {
	delivery, ok := r.deliveries[id]
	if !ok {
		return false, nil
	}
	delivery.DeliveryOtp = &code
	return true, nil
}

func (r *fakeDeliveriesRepo) ConsumePickupOtp(_ context.Context, id int64, code string) (bool, error) {
	delivery, ok := r.deliveries[id]
	if !ok || delivery.PickupOtp == nil || *delivery.PickupOtp != code {
		return false, nil
	}
	delivery.PickupOtp = nil
	return true, nil
}

func (r *fakeDeliveriesRepo) ConsumeDeliveryOtp(_ context.Context, id int64, code string) (bool, error) {
	delivery, ok := r.deliveries[id]
	if !ok || delivery.DeliveryOtp == nil || *delivery.DeliveryOtp != code {
		return false, nil
	}
	delivery.DeliveryOtp = nil
	return true, nil
}

func (r *fakeDeliveriesRepo) AddPhotos(_ context.Context, deliveryID int64, kind string, urls []string) ([]entities.DeliveryPhoto, error) {
	var added []entities.DeliveryPhoto
	for _, url := range urls {
		r.photoSeq++
		photo := entities.DeliveryPhoto{
			ID:         r.photoSeq,
			DeliveryID: deliveryID,
			Kind:       kind,
			URL:        url,
			CreatedAt:  time.Now(),
		}
		r.photos = append(r.photos, photo)
		added = append(added, photo)
	}
	return added, nil
}

func (r *fakeDeliveriesRepo) FindPhotos(_ context.Context, deliveryID int64) ([]entities.DeliveryPhoto, error) {
	var out []entities.DeliveryPhoto
	for _, photo := range r.photos {
		if photo.DeliveryID == deliveryID {
			out = append(out, photo)
		}
	}
	return out, nil
}

type fakeWalletsRepo struct {
	wallets map[int64]*entities.Wallet
}

func newFakeWalletsRepo() *fakeWalletsRepo {
	return &fakeWalletsRepo{wallets: make(map[int64]*entities.Wallet)}
}

func (r *fakeWalletsRepo) Ensure(_ context.Context, userID int64) error {
	if _, ok := r.wallets[userID]; !ok {
		r.wallets[userID] = &entities.Wallet{UserID: userID, UpdatedAt: time.Now()}
	}
	return nil
}

func (r *fakeWalletsRepo) FindByUserID(_ context.Context, userID int64) (*entities.Wallet, error) {
	wallet, ok := r.wallets[userID]
	if !ok {
		return nil, nil
	}
	copied := *wallet
	return &copied, nil
}

func (r *fakeWalletsRepo) FindByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Wallet, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *fakeWalletsRepo) ApplyDelta(_ context.Context, userID, delta int64) error {
	wallet, ok := r.wallets[userID]
	if !ok {
		return nil
	}
	wallet.Balance += delta
	wallet.UpdatedAt = time.Now()
	return nil
}

type fakeTransactionsRepo struct {
	seq     int64
	entries []entities.Transaction
}

func newFakeTransactionsRepo() *fakeTransactionsRepo {
	return &fakeTransactionsRepo{}
}

func (r *fakeTransactionsRepo) Insert(_ context.Context, t entities.Transaction) (*entities.Transaction, error) {
	r.seq++
	t.ID = r.seq
	t.CreatedAt = time.Now()
	r.entries = append(r.entries, t)

	copied := t
	return &copied, nil
}

func (r *fakeTransactionsRepo) FindByProvider(_ context.Context, provider, providerID string) (*entities.Transaction, error) {
	for _, entry := range r.entries {
		if entry.Provider == provider && entry.ProviderID != nil && *entry.ProviderID == providerID {
			copied := entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionsRepo) FindByID(_ context.Context, id int64) (*entities.Transaction, error) {
	for _, entry := range r.entries {
		if entry.ID == id {
			copied := entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeTransactionsRepo) FindByUser(_ context.Context, userID int64) ([]entities.Transaction, error) {
	var out []entities.Transaction
	for _, entry := range r.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *fakeTransactionsRepo) FindByOrder(_ context.Context, orderID int64) ([]entities.Transaction, error) {
	var out []entities.Transaction
	for _, entry := range r.entries {
		if entry.OrderID != nil && *entry.OrderID == orderID {
			out = append(out, entry)
		}
	}
	return out, nil
}
