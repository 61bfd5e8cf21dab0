package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

func newDeliveryServiceForTest() (*DeliveryService, *fakeDeliveriesRepo) {
	deliveries := newFakeDeliveriesRepo()
	service := NewDeliveryService(testLogger(), deliveries, &fakeTransactor{})
	return service, deliveries
}

func seedDelivery(t *testing.T, deliveries *fakeDeliveriesRepo, status entities.DeliveryStatus) *entities.Delivery {
	t.Helper()

	delivery, err := deliveries.Insert(context.Background(), 1, 10, 20)
	require.NoError(t, err)
	deliveries.deliveries[delivery.ID].Status = status
	delivery.Status = status
	return delivery
}

func TestUpdateDeliveryStatusFollowsLinearLifecycle(t *testing.T) {
	service, deliveries := newDeliveryServiceForTest()
	ctx := context.Background()

	delivery := seedDelivery(t, deliveries, entities.DeliveryPendingPickup)

	path := []entities.DeliveryStatus{
		entities.DeliveryAssigned,
		entities.DeliveryPickedUp,
		entities.DeliveryInTransit,
		entities.DeliveryDelivered,
		entities.DeliveryCompleted,
	}
	for _, target := range path {
		updated, err := service.UpdateDeliveryStatus(ctx, delivery.ID, target)
		require.NoError(t, err, "transition to %s", target)
		require.Equal(t, target, updated.Status)
	}

	final := deliveries.deliveries[delivery.ID]
	require.NotNil(t, final.PickedAt)
	require.NotNil(t, final.DeliveredAt)
}

func TestUpdateDeliveryStatusRejectsSkips(t *testing.T) {
	tests := []struct {
		from entities.DeliveryStatus
		to   entities.DeliveryStatus
	}{
		{entities.DeliveryPendingPickup, entities.DeliveryPickedUp},
		{entities.DeliveryPendingPickup, entities.DeliveryCompleted},
		{entities.DeliveryAssigned, entities.DeliveryInTransit},
		{entities.DeliveryPickedUp, entities.DeliveryDelivered},
		{entities.DeliveryInTransit, entities.DeliveryCompleted},
		{entities.DeliveryDelivered, entities.DeliveryPickedUp}, // no going back
		{entities.DeliveryCompleted, entities.DeliveryPendingPickup},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			service, deliveries := newDeliveryServiceForTest()

			delivery := seedDelivery(t, deliveries, tt.from)

			_, err := service.UpdateDeliveryStatus(context.Background(), delivery.ID, tt.to)
			require.ErrorIs(t, err, entities.ErrInvalidTransition)
			require.Equal(t, tt.from, deliveries.deliveries[delivery.ID].Status)
		})
	}
}

func TestUpdateDeliveryStatusNotFound(t *testing.T) {
	service, _ := newDeliveryServiceForTest()

	_, err := service.UpdateDeliveryStatus(context.Background(), 404, entities.DeliveryAssigned)
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestPickupOtpSingleUse(t *testing.T) {
	service, deliveries := newDeliveryServiceForTest()
	ctx := context.Background()

	delivery := seedDelivery(t, deliveries, entities.DeliveryAssigned)

	require.NoError(t, service.SetPickupOtp(ctx, delivery.ID, "123456"))

	// Wrong code fails and leaves the stored code intact
	ok, err := service.VerifyPickupOtp(ctx, delivery.ID, "654321")
	require.NoError(t, err)
	require.False(t, ok)
	require.NotNil(t, deliveries.deliveries[delivery.ID].PickupOtp)

	// Right code verifies exactly once
	ok, err = service.VerifyPickupOtp(ctx, delivery.ID, "123456")
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, deliveries.deliveries[delivery.ID].PickupOtp)

	// Replay fails
	ok, err = service.VerifyPickupOtp(ctx, delivery.ID, "123456")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeliveryOtpSingleUse(t *testing.T) {
	service, deliveries := newDeliveryServiceForTest()
	ctx := context.Background()

	delivery := seedDelivery(t, deliveries, entities.DeliveryInTransit)

	require.NoError(t, service.SetDeliveryOtp(ctx, delivery.ID, "987654"))

	ok, err := service.VerifyDeliveryOtp(ctx, delivery.ID, "987654")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = service.VerifyDeliveryOtp(ctx, delivery.ID, "987654")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyOtpMissingDelivery(t *testing.T) {
	service, _ := newDeliveryServiceForTest()

	ok, err := service.VerifyPickupOtp(context.Background(), 404, "123456")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSetOtpMissingDelivery(t *testing.T) {
	service, _ := newDeliveryServiceForTest()

	err := service.SetPickupOtp(context.Background(), 404, "123456")
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestResetPickupOtpReplacesCode(t *testing.T) {
	service, deliveries := newDeliveryServiceForTest()
	ctx := context.Background()

	delivery := seedDelivery(t, deliveries, entities.DeliveryAssigned)

	require.NoError(t, service.SetPickupOtp(ctx, delivery.ID, "111111"))
	require.NoError(t, service.SetPickupOtp(ctx, delivery.ID, "222222"))

	// Old code is dead after reissue
	ok, err := service.VerifyPickupOtp(ctx, delivery.ID, "111111")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = service.VerifyPickupOtp(ctx, delivery.ID, "222222")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAddPhotos(t *testing.T) {
	service, deliveries := newDeliveryServiceForTest()
	ctx := context.Background()

	delivery := seedDelivery(t, deliveries, entities.DeliveryAssigned)

	photos, err := service.AddPickupPhotos(ctx, delivery.ID, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"})
	require.NoError(t, err)
	require.Len(t, photos, 2)
	require.Equal(t, entities.PhotoKindPickup, photos[0].Kind)

	_, err = service.AddDeliveryPhotos(ctx, delivery.ID, []string{"https://cdn.example.com/c.jpg"})
	require.NoError(t, err)

	all, err := deliveries.FindPhotos(ctx, delivery.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = service.AddPickupPhotos(ctx, 404, []string{"https://cdn.example.com/x.jpg"})
	require.ErrorIs(t, err, entities.ErrNotFound)
}

func TestAddPhotosRejectsEmptySet(t *testing.T) {
	service, deliveries := newDeliveryServiceForTest()
	ctx := context.Background()

	delivery := seedDelivery(t, deliveries, entities.DeliveryAssigned)

	_, err := service.AddPickupPhotos(ctx, delivery.ID, nil)
	require.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = service.AddDeliveryPhotos(ctx, delivery.ID, []string{})
	require.ErrorIs(t, err, entities.ErrInvalidInput)

	all, err := deliveries.FindPhotos(ctx, delivery.ID)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestGenerateOtp(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := GenerateOtp()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			require.True(t, c >= '0' && c <= '9', "non-digit in otp %q", code)
		}
		seen[code] = struct{}{}
	}
	// 50 draws from a million possibilities should not all collide
	require.Greater(t, len(seen), 1)
}
