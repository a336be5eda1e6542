package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Transaction executes fn inside a database transaction. If fn returns an
// error the transaction is rolled back, otherwise it is committed.
//
// fn receives a transaction-scoped *gorm.DB; all statements that must be
// atomic together have to run on that handle.
func (p *Postgres) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.DB().WithContext(ctx).Transaction(fn)
}
