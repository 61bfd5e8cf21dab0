package handlers

import (
	"context"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type TransactionService interface {
	Record(ctx context.Context, params entities.Transaction) (*entities.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*entities.Transaction, error)
	GetUserTransactions(ctx context.Context, userID int64) ([]entities.Transaction, error)
	GetOrderTransactions(ctx context.Context, orderID int64) ([]entities.Transaction, error)
}
