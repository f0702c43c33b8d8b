package workbook_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dom/locus-core/internal/domain"
	"github.com/dom/locus-core/internal/repository"
	"github.com/dom/locus-core/internal/repository/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *workbook.Store {
	t.Helper()
	store := workbook.NewInMemory()
	require.NoError(t, repository.Bootstrap(context.Background(), store))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AppendAndRead(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "Income", domain.Row{
		"Entry_ID": "DOW-010524-001",
		"Branch":   "Downtown",
		"Amount":   "150",
		"Unknown":  "ignored",
	}))
	require.NoError(t, store.Append(ctx, "Income", domain.Row{
		"Entry_ID": "DOW-010524-002",
		"Branch":   "Downtown",
	}))

	rows, err := store.ReadAll(ctx, "Income")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "DOW-010524-001", rows[0]["Entry_ID"])
	assert.Equal(t, "150", rows[0]["Amount"])
	assert.Equal(t, "", rows[1]["Amount"])
	_, hasUnknown := rows[0]["Unknown"]
	assert.False(t, hasUnknown)

	ids, err := store.ReadColumn(ctx, "Income", "Entry_ID")
	require.NoError(t, err)
	assert.Equal(t, []string{"DOW-010524-001", "DOW-010524-002"}, ids)
}

func TestStore_AppendRejects(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "Employees", domain.Row{"Code": "emp001"}))

	tests := []struct {
		name    string
		table   string
		row     domain.Row
		wantErr error
	}{
		{
			name:    "duplicate key",
			table:   "Employees",
			row:     domain.Row{"Code": " emp001 "},
			wantErr: domain.ErrDuplicateRecord,
		},
		{
			name:    "missing key",
			table:   "Employees",
			row:     domain.Row{"Name": "Nobody"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown table",
			table:   "Payroll",
			row:     domain.Row{"Code": "emp002"},
			wantErr: domain.ErrUnknownTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Append(ctx, tt.table, tt.row)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStore_UpdateCell(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "Employees", domain.Row{"Code": "emp001", "Password": "old"}))
	require.NoError(t, store.Append(ctx, "Employees", domain.Row{"Code": "emp002", "Password": "other"}))

	require.NoError(t, store.UpdateCell(ctx, "Employees", "Code", "emp002", "Password", "newpass"))

	rows, err := store.ReadAll(ctx, "Employees")
	require.NoError(t, err)
	assert.Equal(t, "old", rows[0]["Password"])
	assert.Equal(t, "newpass", rows[1]["Password"])

	err = store.UpdateCell(ctx, "Employees", "Code", "emp999", "Password", "x")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStore_PersistsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locus.xlsx")
	ctx := context.Background()

	store, err := workbook.Open(path)
	require.NoError(t, err)
	require.NoError(t, repository.Bootstrap(ctx, store))
	require.NoError(t, store.Append(ctx, "Employees", domain.Row{"Code": "emp007", "Name": "Mona"}))
	require.NoError(t, store.Close())

	reopened, err := workbook.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	require.NoError(t, repository.Bootstrap(ctx, reopened))

	rows, err := reopened.ReadAll(ctx, "Employees")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Mona", rows[0]["Name"])
}
