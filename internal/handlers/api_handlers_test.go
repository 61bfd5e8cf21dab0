package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type fakeTransactionService struct {
	recorded []entities.Transaction
	result   *entities.Transaction
}

func (f *fakeTransactionService) Record(_ context.Context, params entities.Transaction) (*entities.Transaction, error) {
	f.recorded = append(f.recorded, params)
	return f.result, nil
}

func (f *fakeTransactionService) GetTransaction(context.Context, int64) (*entities.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionService) GetUserTransactions(context.Context, int64) ([]entities.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactionService) GetOrderTransactions(context.Context, int64) ([]entities.Transaction, error) {
	return nil, nil
}

func TestRecordTransactionEndpoint(t *testing.T) {
	fake := &fakeTransactionService{result: &entities.Transaction{ID: 7}}
	handler := NewHTTPHandler(testLogger(), nil, nil, nil, fake)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	body := `{"user_id":10,"order_id":3,"amount":4990,"type":"CHARGE","provider":"razorpay","provider_id":"pay_abc123"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	req.Header.Set(headerUserID, "1")
	req.Header.Set(headerUserRole, RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, fake.recorded, 1)
	params := fake.recorded[0]
	require.Equal(t, int64(10), params.UserID)
	require.Equal(t, entities.TransactionCharge, params.Type)
	require.Equal(t, "razorpay", params.Provider)
	require.NotNil(t, params.ProviderID)
	require.Equal(t, "pay_abc123", *params.ProviderID)
	require.NotNil(t, params.OrderID)
	require.Equal(t, int64(3), *params.OrderID)
}

func TestRecordTransactionEndpointAdminOnly(t *testing.T) {
	fake := &fakeTransactionService{result: &entities.Transaction{ID: 7}}
	handler := NewHTTPHandler(testLogger(), nil, nil, nil, fake)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	body := `{"user_id":10,"amount":4990,"type":"CHARGE","provider":"razorpay"}`
	req := httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body))
	req.Header.Set(headerUserID, "10")
	req.Header.Set(headerUserRole, RoleDelivery)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Empty(t, fake.recorded)
}
