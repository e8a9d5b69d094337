package repository

import "context"

// Transactor runs a function inside a single atomic unit of work. Every
// repository call made with the context passed to fn joins the same
// transaction; if fn returns an error nothing is persisted.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
