package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loopwear/marketplace-app/backend/internal/core/ports"
	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type TransactionsRepository interface {
	Insert(ctx context.Context, t entities.Transaction) (*entities.Transaction, error)
	FindByProvider(ctx context.Context, provider, providerID string) (*entities.Transaction, error)
	FindByID(ctx context.Context, id int64) (*entities.Transaction, error)
	FindByUser(ctx context.Context, userID int64) ([]entities.Transaction, error)
	FindByOrder(ctx context.Context, orderID int64) ([]entities.Transaction, error)
}

// TransactionService reads the ledger and records externally tagged entries.
type TransactionService struct {
	logger *slog.Logger

	transactions TransactionsRepository
	transactor   ports.Transactor
}

func NewTransactionService(logger *slog.Logger, transactions TransactionsRepository, transactor ports.Transactor) *TransactionService {
	return &TransactionService{
		logger:       logger,
		transactions: transactions,
		transactor:   transactor,
	}
}

// Record appends a ledger entry. When the entry carries an external
// (provider, providerId) pair, a duplicate request returns the existing
// entry unchanged; duplicate payment gateway callbacks become no-ops.
func (s *TransactionService) Record(ctx context.Context, params entities.Transaction) (*entities.Transaction, error) {
	if params.Status == "" {
		params.Status = entities.TransactionCompleted
	}

	var recorded *entities.Transaction

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if params.ProviderID != nil {
			existing, err := s.transactions.FindByProvider(ctx, params.Provider, *params.ProviderID)
			if err != nil {
				return err
			}
			if existing != nil {
				s.logger.Info("Transaction already recorded",
					"provider", params.Provider, "provider_id", *params.ProviderID)
				recorded = existing
				return nil
			}
		}

		var err error
		recorded, err = s.transactions.Insert(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	return recorded, nil
}

// GetTransaction retrieves a single ledger entry.
func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (*entities.Transaction, error) {
	transaction, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, fmt.Errorf("%w: transaction %d", entities.ErrNotFound, id)
	}
	return transaction, nil
}

// GetUserTransactions lists a user's ledger entries.
func (s *TransactionService) GetUserTransactions(ctx context.Context, userID int64) ([]entities.Transaction, error) {
	return s.transactions.FindByUser(ctx, userID)
}

// GetOrderTransactions lists the ledger entries tied to an order.
func (s *TransactionService) GetOrderTransactions(ctx context.Context, orderID int64) ([]entities.Transaction, error) {
	return s.transactions.FindByOrder(ctx, orderID)
}
