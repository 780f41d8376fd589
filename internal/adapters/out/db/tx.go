// internal/adapters/out/db/tx.go
package db

import (
	"context"
	"database/sql"
	"fmt"

	dbcommon "digitalstore/internal/adapters/out/db/common"
)

// TxManagerPG implements common.TxManager over *sql.DB. The open transaction
// travels in the context, so every repository call inside fn runs on it.
type TxManagerPG struct {
	DB *sql.DB
}

func NewTxManagerPG(db *sql.DB) *TxManagerPG {
	return &TxManagerPG{DB: db}
}

func (m *TxManagerPG) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// already inside a transaction: join it
	if tx := dbcommon.TxFromCtx(ctx); tx != nil {
		return fn(ctx)
	}

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbcommon.CtxWithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: commit tx: %w", err)
	}
	return nil
}
