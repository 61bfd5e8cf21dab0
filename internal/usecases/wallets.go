package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loopwear/marketplace-app/backend/internal/core/ports"
	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

type WalletsRepository interface {
	Ensure(ctx context.Context, userID int64) error
	FindByUserID(ctx context.Context, userID int64) (*entities.Wallet, error)
	FindByUserIDForUpdate(ctx context.Context, userID int64) (*entities.Wallet, error)
	ApplyDelta(ctx context.Context, userID, delta int64) error
}

// WalletService is the ledger coordinator. A balance change and its ledger
// entry commit together or not at all; the wallet row lock serializes
// concurrent mutations for the same user.
type WalletService struct {
	logger *slog.Logger

	wallets      WalletsRepository
	transactions TransactionsRepository
	transactor   ports.Transactor
}

func NewWalletService(logger *slog.Logger, wallets WalletsRepository, transactions TransactionsRepository, transactor ports.Transactor) *WalletService {
	return &WalletService{
		logger:       logger,
		wallets:      wallets,
		transactions: transactions,
		transactor:   transactor,
	}
}

// Credit adds funds to the user's wallet, creating it if needed, and writes
// the matching PAYOUT ledger entry.
func (s *WalletService) Credit(ctx context.Context, userID, amount int64, orderID *int64) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount %d", entities.ErrInvalidAmount, amount)
	}

	var transaction *entities.Transaction

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.wallets.Ensure(ctx, userID); err != nil {
			return err
		}

		if _, err := s.wallets.FindByUserIDForUpdate(ctx, userID); err != nil {
			return err
		}

		var err error
		transaction, err = s.transactions.Insert(ctx, entities.Transaction{
			UserID:   userID,
			OrderID:  orderID,
			Amount:   amount,
			Type:     entities.TransactionPayout,
			Provider: entities.ProviderWallet,
			Status:   entities.TransactionCompleted,
		})
		if err != nil {
			return err
		}

		return s.wallets.ApplyDelta(ctx, userID, amount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Wallet credited", "user_id", userID, "amount", amount)
	return transaction, nil
}

// Debit removes funds from the user's wallet and writes the matching CHARGE
// ledger entry. Fails with ErrInsufficientFunds when the locked balance does
// not cover the amount.
func (s *WalletService) Debit(ctx context.Context, userID, amount int64, orderID *int64) (*entities.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit amount %d", entities.ErrInvalidAmount, amount)
	}

	var transaction *entities.Transaction

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.wallets.Ensure(ctx, userID); err != nil {
			return err
		}

		wallet, err := s.wallets.FindByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if wallet == nil || wallet.Balance < amount {
			return fmt.Errorf("%w: user %d", entities.ErrInsufficientFunds, userID)
		}

		transaction, err = s.transactions.Insert(ctx, entities.Transaction{
			UserID:   userID,
			OrderID:  orderID,
			Amount:   -amount,
			Type:     entities.TransactionCharge,
			Provider: entities.ProviderWallet,
			Status:   entities.TransactionCompleted,
		})
		if err != nil {
			return err
		}

		return s.wallets.ApplyDelta(ctx, userID, -amount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Wallet debited", "user_id", userID, "amount", amount)
	return transaction, nil
}

// Balance returns the user's balance; a user without a wallet has zero.
func (s *WalletService) Balance(ctx context.Context, userID int64) (int64, error) {
	wallet, err := s.wallets.FindByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Balance, nil
}
