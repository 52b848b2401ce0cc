package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopmesh/shopmesh/internal/port"
)

// pgUnitOfWork runs a callback inside a single pgx transaction and hands it
// repositories bound to that transaction. Stock decrements and the order
// insert commit or abort together through this path.
type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewUnitOfWork(pool *pgxpool.Pool) port.UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

type txStores struct {
	orders   port.OrderRepository
	products port.ProductRepository
}

func (s txStores) Orders() port.OrderRepository     { return s.orders }
func (s txStores) Products() port.ProductRepository { return s.products }

func (u *pgUnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, stores port.TxStores) error) (txErr error) {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	stores := txStores{
		orders:   NewOrderWithTx(tx),
		products: NewProductWithTx(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
