package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.openly.dev/pointy"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
	"github.com/loopwear/marketplace-app/backend/internal/usecases"
)

var (
	_ OrderService       = (*usecases.OrderService)(nil)
	_ DeliveryService    = (*usecases.DeliveryService)(nil)
	_ WalletService      = (*usecases.WalletService)(nil)
	_ TransactionService = (*usecases.TransactionService)(nil)
)

// Roles recognized by the route gating. Authentication itself happens
// upstream; these handlers trust the identity headers the gateway sets.
const (
	RoleAdmin    = "ADMIN"
	RoleDelivery = "DELIVERY"

	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

type HTTPHandler struct {
	logger             *slog.Logger
	orderService       OrderService
	deliveryService    DeliveryService
	walletService      WalletService
	transactionService TransactionService
}

func NewHTTPHandler(
	logger *slog.Logger,
	orderService OrderService,
	deliveryService DeliveryService,
	walletService WalletService,
	transactionService TransactionService,
) *HTTPHandler {
	return &HTTPHandler{
		logger:             logger,
		orderService:       orderService,
		deliveryService:    deliveryService,
		walletService:      walletService,
		transactionService: transactionService,
	}
}

func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	// Orders
	router.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	router.HandleFunc("/orders/user/my-orders", h.GetMyOrders).Methods("GET")
	router.HandleFunc("/orders/pending/deliveries", h.GetPendingDeliveries).Methods("GET")
	router.HandleFunc("/orders/{id:[0-9]+}", h.GetOrder).Methods("GET")
	router.HandleFunc("/orders/{id:[0-9]+}/status", h.UpdateOrderStatus).Methods("PATCH")
	router.HandleFunc("/orders/{id:[0-9]+}/assign-delivery", h.AssignDelivery).Methods("PATCH")
	router.HandleFunc("/orders/{id:[0-9]+}/cancel", h.CancelOrder).Methods("PATCH")

	// Deliveries
	router.HandleFunc("/deliveries/delivery-person/assignments", h.GetAssignments).Methods("GET")
	router.HandleFunc("/deliveries/{id:[0-9]+}", h.GetDelivery).Methods("GET")
	router.HandleFunc("/deliveries/{id:[0-9]+}/status", h.UpdateDeliveryStatus).Methods("PATCH")
	router.HandleFunc("/deliveries/{id:[0-9]+}/pickup-otp", h.SetPickupOtp).Methods("POST")
	router.HandleFunc("/deliveries/{id:[0-9]+}/verify-pickup-otp", h.VerifyPickupOtp).Methods("POST")
	router.HandleFunc("/deliveries/{id:[0-9]+}/delivery-otp", h.SetDeliveryOtp).Methods("POST")
	router.HandleFunc("/deliveries/{id:[0-9]+}/verify-delivery-otp", h.VerifyDeliveryOtp).Methods("POST")
	router.HandleFunc("/deliveries/{id:[0-9]+}/pickup-photos", h.AddPickupPhotos).Methods("POST")
	router.HandleFunc("/deliveries/{id:[0-9]+}/delivery-photos", h.AddDeliveryPhotos).Methods("POST")

	// Wallet
	router.HandleFunc("/wallet", h.GetWallet).Methods("GET")
	router.HandleFunc("/wallet/transactions", h.GetWalletTransactions).Methods("GET")
	router.HandleFunc("/wallet/credit", h.CreditWallet).Methods("POST")
	router.HandleFunc("/wallet/debit", h.DebitWallet).Methods("POST")

	// Transactions
	router.HandleFunc("/transactions", h.RecordTransaction).Methods("POST")
	router.HandleFunc("/transactions/me", h.GetMyTransactions).Methods("GET")
	router.HandleFunc("/transactions/order/{orderId:[0-9]+}", h.GetOrderTransactions).Methods("GET")
	router.HandleFunc("/transactions/{id:[0-9]+}", h.GetTransaction).Methods("GET")
}

// identity extracts the authenticated caller from the gateway headers.
func identity(r *http.Request) (int64, string, error) {
	rawID := r.Header.Get(headerUserID)
	if rawID == "" {
		return 0, "", fmt.Errorf("%w: missing %s header", entities.ErrUnauthorized, headerUserID)
	}

	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: invalid %s header", entities.ErrUnauthorized, headerUserID)
	}

	return userID, r.Header.Get(headerUserRole), nil
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entities.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, entities.ErrInvalidAmount):
		status = http.StatusBadRequest
	case errors.Is(err, entities.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, entities.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, entities.ErrUnauthorized):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

type createOrderRequest struct {
	ListingID         int64 `json:"listing_id"`
	PickupAddressID   int64 `json:"pickup_address_id"`
	DeliveryAddressID int64 `json:"delivery_address_id"`
	TotalAmount       int64 `json:"total_amount"`
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req createOrderRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, delivery, err := h.orderService.CreateOrder(r.Context(),
		userID, req.ListingID, req.PickupAddressID, req.DeliveryAddressID, req.TotalAmount)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{
		"order":    order,
		"delivery": delivery,
	})
}

func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if order.BuyerID != userID && role != RoleAdmin && role != RoleDelivery {
		h.writeError(w, fmt.Errorf("%w: not a party to order %d", entities.ErrUnauthorized, orderID))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"order": order})
}

func (h *HTTPHandler) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orders, err := h.orderService.GetBuyerOrders(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type updateOrderStatusRequest struct {
	Status entities.OrderStatus `json:"status"`
}

func (h *HTTPHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req updateOrderStatusRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if order.BuyerID != userID && role != RoleAdmin && role != RoleDelivery {
		h.writeError(w, fmt.Errorf("%w: not a party to order %d", entities.ErrUnauthorized, orderID))
		return
	}

	updated, err := h.orderService.TransitionOrder(r.Context(), orderID, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order":   updated,
	})
}

type assignDeliveryRequest struct {
	DeliveryPersonID int64 `json:"delivery_person_id"`
}

func (h *HTTPHandler) AssignDelivery(w http.ResponseWriter, r *http.Request) {
	_, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if role != RoleAdmin {
		h.writeError(w, fmt.Errorf("%w: only admins assign deliveries", entities.ErrUnauthorized))
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	var req assignDeliveryRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.AssignDelivery(r.Context(), orderID, req.DeliveryPersonID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Delivery person assigned successfully",
		"order":   order,
	})
}

func (h *HTTPHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if role != RoleAdmin {
		order, err := h.orderService.GetOrder(r.Context(), orderID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if order.BuyerID != userID {
			h.writeError(w, fmt.Errorf("%w: not the buyer of order %d", entities.ErrUnauthorized, orderID))
			return
		}
	}

	if err = h.orderService.CancelOrder(r.Context(), orderID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"message": "Order cancelled successfully"})
}

func (h *HTTPHandler) GetPendingDeliveries(w http.ResponseWriter, r *http.Request) {
	_, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if role != RoleAdmin && role != RoleDelivery {
		h.writeError(w, fmt.Errorf("%w: delivery staff only", entities.ErrUnauthorized))
		return
	}

	orders, err := h.orderService.GetPendingDeliveries(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *HTTPHandler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	deliveryID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid delivery id", http.StatusBadRequest)
		return
	}

	delivery, err := h.deliveryService.GetDelivery(r.Context(), deliveryID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if !h.canAccessDelivery(r, delivery, userID, role) {
		h.writeError(w, fmt.Errorf("%w: not a party to delivery %d", entities.ErrUnauthorized, deliveryID))
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"delivery": delivery})
}

// canAccessDelivery admits the admin, the assigned worker and the buyer of
// the linked order.
func (h *HTTPHandler) canAccessDelivery(r *http.Request, delivery *entities.Delivery, userID int64, role string) bool {
	if role == RoleAdmin {
		return true
	}
	if delivery.AssignedToID != nil && *delivery.AssignedToID == userID {
		return true
	}

	order, err := h.orderService.GetOrder(r.Context(), delivery.OrderID)
	if err != nil {
		return false
	}
	return order.BuyerID == userID
}

// workerOnDelivery gates worker-side mutations: the assigned worker or an
// admin.
func (h *HTTPHandler) workerOnDelivery(r *http.Request, w http.ResponseWriter) (*entities.Delivery, bool) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}

	deliveryID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid delivery id", http.StatusBadRequest)
		return nil, false
	}

	delivery, err := h.deliveryService.GetDelivery(r.Context(), deliveryID)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}

	if role != RoleAdmin {
		if role != RoleDelivery || delivery.AssignedToID == nil || *delivery.AssignedToID != userID {
			h.writeError(w, fmt.Errorf("%w: not assigned to delivery %d", entities.ErrUnauthorized, deliveryID))
			return nil, false
		}
	}

	return delivery, true
}

func (h *HTTPHandler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if role != RoleDelivery {
		h.writeError(w, fmt.Errorf("%w: delivery staff only", entities.ErrUnauthorized))
		return
	}

	deliveries, err := h.deliveryService.GetWorkerDeliveries(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"deliveries": deliveries})
}

type updateDeliveryStatusRequest struct {
	Status entities.DeliveryStatus `json:"status"`
}

func (h *HTTPHandler) UpdateDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	delivery, ok := h.workerOnDelivery(r, w)
	if !ok {
		return
	}

	var req updateDeliveryStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.deliveryService.UpdateDeliveryStatus(r.Context(), delivery.ID, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Delivery status updated successfully",
		"delivery": updated,
	})
}

func (h *HTTPHandler) SetPickupOtp(w http.ResponseWriter, r *http.Request) {
	h.setOtp(w, r, h.deliveryService.SetPickupOtp)
}

func (h *HTTPHandler) SetDeliveryOtp(w http.ResponseWriter, r *http.Request) {
	h.setOtp(w, r, h.deliveryService.SetDeliveryOtp)
}

func (h *HTTPHandler) setOtp(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, deliveryID int64, code string) error) {
	delivery, ok := h.workerOnDelivery(r, w)
	if !ok {
		return
	}

	code, err := usecases.GenerateOtp()
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err = set(r.Context(), delivery.ID, code); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"otp": code})
}

type verifyOtpRequest struct {
	Code string `json:"code"`
}

func (h *HTTPHandler) VerifyPickupOtp(w http.ResponseWriter, r *http.Request) {
	h.verifyOtp(w, r, h.deliveryService.VerifyPickupOtp)
}

func (h *HTTPHandler) VerifyDeliveryOtp(w http.ResponseWriter, r *http.Request) {
	h.verifyOtp(w, r, h.deliveryService.VerifyDeliveryOtp)
}

func (h *HTTPHandler) verifyOtp(w http.ResponseWriter, r *http.Request, verify func(ctx context.Context, deliveryID int64, code string) (bool, error)) {
	delivery, ok := h.workerOnDelivery(r, w)
	if !ok {
		return
	}

	var req verifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	verified, err := verify(r.Context(), delivery.ID, req.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"verified": verified})
}

type addPhotosRequest struct {
	PhotoURLs []string `json:"photo_urls"`
}

func (h *HTTPHandler) AddPickupPhotos(w http.ResponseWriter, r *http.Request) {
	h.addPhotos(w, r, h.deliveryService.AddPickupPhotos)
}

func (h *HTTPHandler) AddDeliveryPhotos(w http.ResponseWriter, r *http.Request) {
	h.addPhotos(w, r, h.deliveryService.AddDeliveryPhotos)
}

func (h *HTTPHandler) addPhotos(w http.ResponseWriter, r *http.Request, add func(ctx context.Context, deliveryID int64, urls []string) ([]entities.DeliveryPhoto, error)) {
	delivery, ok := h.workerOnDelivery(r, w)
	if !ok {
		return
	}

	var req addPhotosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.PhotoURLs) == 0 {
		http.Error(w, "photo_urls is required", http.StatusBadRequest)
		return
	}

	photos, err := add(r.Context(), delivery.ID, req.PhotoURLs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
}

func (h *HTTPHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	balance, err := h.walletService.Balance(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (h *HTTPHandler) GetWalletTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transactions, err := h.transactionService.GetUserTransactions(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

type walletMutationRequest struct {
	UserID  int64 `json:"user_id"`
	Amount  int64 `json:"amount"`
	OrderID int64 `json:"order_id"`
}

func (h *HTTPHandler) CreditWallet(w http.ResponseWriter, r *http.Request) {
	h.mutateWallet(w, r, h.walletService.Credit, "Wallet credited successfully")
}

func (h *HTTPHandler) DebitWallet(w http.ResponseWriter, r *http.Request) {
	h.mutateWallet(w, r, h.walletService.Debit, "Wallet debited successfully")
}

func (h *HTTPHandler) mutateWallet(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, userID, amount int64, orderID *int64) (*entities.Transaction, error), message string) {
	_, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if role != RoleAdmin {
		h.writeError(w, fmt.Errorf("%w: admins only", entities.ErrUnauthorized))
		return
	}

	var req walletMutationRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		http.Error(w, "user_id and amount are required", http.StatusBadRequest)
		return
	}

	var orderID *int64
	if req.OrderID != 0 {
		orderID = pointy.Int64(req.OrderID)
	}

	transaction, err := apply(r.Context(), req.UserID, req.Amount, orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"message":     message,
		"transaction": transaction,
	})
}

type recordTransactionRequest struct {
	UserID     int64                    `json:"user_id"`
	OrderID    int64                    `json:"order_id"`
	Amount     int64                    `json:"amount"`
	Type       entities.TransactionType `json:"type"`
	Provider   string                   `json:"provider"`
	ProviderID string                   `json:"provider_id"`
	Status     string                   `json:"status"`
}

// RecordTransaction appends a ledger entry for an external payment event.
// Gateways retry callbacks, so the same (provider, provider_id) pair returns
// the original entry instead of a duplicate.
func (h *HTTPHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	_, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if role != RoleAdmin {
		h.writeError(w, fmt.Errorf("%w: admins only", entities.ErrUnauthorized))
		return
	}

	var req recordTransactionRequest
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 || req.Type == "" || req.Provider == "" {
		http.Error(w, "user_id, amount, type and provider are required", http.StatusBadRequest)
		return
	}

	params := entities.Transaction{
		UserID:   req.UserID,
		Amount:   req.Amount,
		Type:     req.Type,
		Provider: req.Provider,
		Status:   req.Status,
	}
	if req.OrderID != 0 {
		params.OrderID = pointy.Int64(req.OrderID)
	}
	if req.ProviderID != "" {
		params.ProviderID = pointy.String(req.ProviderID)
	}

	transaction, err := h.transactionService.Record(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"transaction": transaction})
}

func (h *HTTPHandler) GetMyTransactions(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	transactions, err := h.transactionService.GetUserTransactions(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (h *HTTPHandler) GetOrderTransactions(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	orderID, err := pathID(r, "orderId")
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}

	if role != RoleAdmin {
		order, err := h.orderService.GetOrder(r.Context(), orderID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		if order.BuyerID != userID {
			h.writeError(w, fmt.Errorf("%w: not the buyer of order %d", entities.ErrUnauthorized, orderID))
			return
		}
	}

	transactions, err := h.transactionService.GetOrderTransactions(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (h *HTTPHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	_, role, err := identity(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if role != RoleAdmin {
		h.writeError(w, fmt.Errorf("%w: admins only", entities.ErrUnauthorized))
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid transaction id", http.StatusBadRequest)
		return
	}

	transaction, err := h.transactionService.GetTransaction(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"transaction": transaction})
}
