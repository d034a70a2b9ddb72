// Package transactor propagates a database transaction through context so
// repositories stay unaware of transaction boundaries.
package transactor

import "context"

// Transactor represents behavior for transactors
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}
