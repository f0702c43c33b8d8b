package postgres_test

import (
	"context"
	"sync"
	"testing"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/idgen"
	"github.com/dom/locus-core/internal/repository"
	"github.com/dom/locus-core/internal/repository/postgres"
	"github.com/dom/locus-core/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStore(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	ctx := context.Background()

	newStore := func(t *testing.T) repository.RecordStore {
		testDB.Truncate(t)
		store := postgres.NewRecordStore(testDB.DB)
		require.NoError(t, repository.Bootstrap(ctx, store))
		return store
	}

	t.Run("bootstrap is idempotent", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, repository.Bootstrap(ctx, store))
	})

	t.Run("append and read", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, "Income", domain.Row{
			"Entry_ID": "DOW-010524-001",
			"Amount":   "150",
		}))
		require.NoError(t, store.Append(ctx, "Income", domain.Row{"Entry_ID": "DOW-010524-002"}))

		rows, err := store.ReadAll(ctx, "Income")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "150", rows[0]["Amount"])
		assert.Equal(t, "", rows[1]["Amount"])

		ids, err := store.ReadColumn(ctx, "Income", "Entry_ID")
		require.NoError(t, err)
		assert.Equal(t, []string{"DOW-010524-001", "DOW-010524-002"}, ids)
	})

	t.Run("append rejects", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Append(ctx, "Employees", domain.Row{"Code": "emp001"}))

		tests := []struct {
			name    string
			table   string
			row     domain.Row
			wantErr error
		}{
			{name: "duplicate key", table: "Employees", row: domain.Row{"Code": " emp001 "}, wantErr: domain.ErrDuplicateRecord},
			{name: "missing key", table: "Employees", row: domain.Row{"Name": "x"}, wantErr: domain.ErrValidation},
			{name: "unknown table", table: "Payroll", row: domain.Row{"Code": "emp002"}, wantErr: domain.ErrUnknownTable},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.ErrorIs(t, store.Append(ctx, tt.table, tt.row), tt.wantErr)
			})
		}
	})

	t.Run("update cell", func(t *testing.T) {
		store := newStore(t)
		employee, _ := testutil.NewEmployeeBuilder().WithCode("emp001").WithPassword("old-pw").Build(t, store)

		require.NoError(t, repository.NewEmployeeRepository(store).UpdatePassword(ctx, " emp001", "new-pw"))

		stored, err := repository.NewEmployeeRepository(store).GetByCode(ctx, employee.Code)
		require.NoError(t, err)
		assert.Equal(t, "new-pw", stored.Password)
		assert.Equal(t, employee.Name, stored.Name)

		err = store.UpdateCell(ctx, "Employees", "Code", "emp404", "Password", "x")
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("concurrent writers never share an id", func(t *testing.T) {
		store := newStore(t)

		// Two generators stand in for two processes sharing the database.
		a, b := idgen.New(store), idgen.New(store)
		build := func(id string) domain.Row { return domain.Row{"Lead_ID": id} }

		var wg sync.WaitGroup
		results := make(chan error, 20)
		for i := 0; i < 10; i++ {
			for _, gen := range []*idgen.Generator{a, b} {
				wg.Add(1)
				go func(gen *idgen.Generator) {
					defer wg.Done()
					_, err := gen.Mint(ctx, "LEAD", "Mall", testutil.Epoch, "Leads", build)
					results <- err
				}(gen)
			}
		}
		wg.Wait()
		close(results)

		minted := 0
		for err := range results {
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrIDConflict)
				continue
			}
			minted++
		}

		ids, err := store.ReadColumn(ctx, "Leads", "Lead_ID")
		require.NoError(t, err)
		assert.Len(t, ids, minted)

		seen := make(map[string]bool)
		for _, id := range ids {
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})
}
