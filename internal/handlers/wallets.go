package handlers

import (
	"context"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type WalletService interface {
	Credit(ctx context.Context, userID, amount int64, orderID *int64) (*entities.Transaction, error)
	Debit(ctx context.Context, userID, amount int64, orderID *int64) (*entities.Transaction, error)
	Balance(ctx context.Context, userID int64) (int64, error)
}
