package repositories

import "context"

// TxFunc is the body of a unit of work. The repositories it receives are
// bound to the running transaction; rows they read for mutation are locked
// until the unit of work ends.
type TxFunc func(ctx context.Context, repos RepositoryProvider) error

// TransactionManager runs a function as one atomic unit of work.
// Any error returned by fn rolls back every write it made.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn TxFunc) error
}
