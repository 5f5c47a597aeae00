package repository

import (
	"context"
)

// RepositoryFactory hands out repository instances bound to one transaction.
type RepositoryFactory interface {
	NewAddressRepository() AddressRepository
	NewAddressSourceRepository() AddressSourceRepository
}

// TransactionManager runs a unit of work inside a single database
// transaction. The address-plus-initial-source create pair goes through it
// so a half-written address never becomes visible.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
