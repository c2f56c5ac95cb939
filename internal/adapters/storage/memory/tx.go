package memory

import "context"

// TxRunner no tiene transacciones reales: ejecuta fn directamente.
// Sirve para modo dev/tests, donde no hay rollback.
type TxRunner struct{}

func (TxRunner) WithinTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
