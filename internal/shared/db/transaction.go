// Package db holds the gorm helpers shared by every repository: the ambient
// transaction carried on a context and a few query scopes.
package db

import (
	"context"

	"gorm.io/gorm"
)

type ambientTx struct{}

// TransactionManager opens the transaction a use case runs its writes in.
type TransactionManager struct {
	root *gorm.DB
}

func NewTransactionManager(root *gorm.DB) *TransactionManager {
	return &TransactionManager{root: root}
}

// RunInTransaction commits when fn returns nil and rolls back otherwise.
// Calls made while a transaction is already open on ctx run inside it.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if InTransaction(ctx) {
		return fn(ctx)
	}
	return tm.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, ambientTx{}, tx))
	})
}

func InTransaction(ctx context.Context) bool {
	return txFrom(ctx) != nil
}

// Conn returns the open transaction on ctx, or fallback bound to ctx.
// Repositories resolve every query handle through it.
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}

func txFrom(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(ambientTx{}).(*gorm.DB)
	return tx
}
