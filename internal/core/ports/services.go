package ports

import (
	"context"

	"github.com/loopwear/marketplace-app/backend/internal/entities"
)

// Transactor composes repository calls into one atomic unit. Statements
// issued through the repositories inside the callback join the same database
// transaction. Satisfied by *tx.Transactor from Thiht/transactor/pgx.
type Transactor interface {
	WithinTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error
}

// OrderEventPublisher receives committed order status changes for fan-out
// to realtime subscribers.
type OrderEventPublisher interface {
	PublishOrderEvent(event entities.OrderEvent)
}
