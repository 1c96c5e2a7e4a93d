package services

import (
	"context"

	"github.com/upb/channel-links/internal/shared"
	"github.com/upb/channel-links/repositories"
)

// WithTransaction executes fn within a database transaction.
// The context passed to fn carries the transaction, so repository calls made
// with it join the transaction. Commits on success, rolls back on error.
// Errors returned by fn come back unchanged; failures to begin or commit are
// reported as internal errors.
func WithTransaction(ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	var fnErr error
	err := txMgr.InTransaction(ctx, func(txCtx context.Context, tx repositories.Transaction) error {
		fnErr = fn(txCtx, tx)
		return fnErr
	})
	if err == nil {
		return nil
	}
	if fnErr != nil {
		return fnErr
	}
	return shared.NewDomainError(shared.ErrorTypeInternal, shared.ErrTransactionFailed.Message, err)
}

// WithTransactionResult executes fn within a database transaction and returns its result.
func WithTransactionResult[T any](ctx context.Context, txMgr repositories.TransactionManager, fn func(ctx context.Context, tx repositories.Transaction) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		var err error
		result, err = fn(txCtx, tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
