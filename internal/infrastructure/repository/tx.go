package repository

import (
	"context"

	domainRepo "github.com/acampos/tiendita-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txContextKey struct{}

// withTx returns a context carrying the transaction handle. Repositories pick
// it up through conn so their queries join the enclosing transaction.
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// conn returns the transaction from ctx when inside a unit of work, or the
// base connection otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a Transactor backed by GORM transactions
func NewTxManager(db *gorm.DB) domainRepo.Transactor {
	return &txManager{db: db}
}

func (m *txManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
