// internal/domain/common/tx.go
package common

import "context"

// TxManager runs fn inside one storage transaction. Repositories pick the
// transaction up from the context, so every repository call made within fn
// shares the same all-or-nothing boundary. fn returning an error rolls the
// whole transaction back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
