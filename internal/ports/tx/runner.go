package tx

import "context"

// Runner ejecuta fn dentro de una transacción. Si fn devuelve error se hace rollback.
// Los repos que reciben el ctx de fn participan de la misma transacción.
type Runner interface {
	WithinTx(ctx context.Context, op string, fn func(ctx context.Context) error) error
}
