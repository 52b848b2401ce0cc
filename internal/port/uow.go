package port

import "context"

// TxStores exposes repositories bound to one in-flight transaction.
type TxStores interface {
	Orders() OrderRepository
	Products() ProductRepository
}

// UnitOfWork runs fn inside a single atomic scope: every read and write made
// through the stores commits or aborts as a whole. Any error from fn aborts.
//
// Keeping this as an interface lets the order service run against an
// in-memory equivalent in unit tests, without a live transactional backend.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error
}
