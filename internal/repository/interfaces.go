package repository

import (
	"context"

	"github.com/dom/locus-core/internal/domain"
)

// RecordStore is the tabular backing store. It offers no transactions and no
// row locks; the only uniqueness it enforces is on each table's key column at
// append time.
type RecordStore interface {
	// EnsureTable creates the table with its headers if it does not exist.
	EnsureTable(ctx context.Context, table domain.Table) error
	ReadAll(ctx context.Context, table string) ([]domain.Row, error)
	ReadColumn(ctx context.Context, table, column string) ([]string, error)
	// Append adds row at the end of table. Returns domain.ErrDuplicateRecord
	// when the key column value is already present.
	Append(ctx context.Context, table string, row domain.Row) error
	// UpdateCell sets column on the first row whose keyColumn equals key.
	// Returns domain.ErrRecordNotFound when no row matches.
	UpdateCell(ctx context.Context, table, keyColumn, key, column, value string) error
}

type EmployeeRepository interface {
	List(ctx context.Context) ([]*domain.Employee, error)
	GetByCode(ctx context.Context, code string) (*domain.Employee, error)
	Create(ctx context.Context, employee *domain.Employee) error
	UpdatePassword(ctx context.Context, code, password string) error
}

type Repositories struct {
	Records  RecordStore
	Employee EmployeeRepository
}

// NewRepositories builds the repository set over a record store.
func NewRepositories(store RecordStore) *Repositories {
	return &Repositories{
		Records:  store,
		Employee: NewEmployeeRepository(store),
	}
}

// Bootstrap ensures every built-in table exists.
func Bootstrap(ctx context.Context, store RecordStore) error {
	for _, table := range domain.AllTables {
		if err := store.EnsureTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}
