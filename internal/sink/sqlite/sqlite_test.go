package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsantin/spesebot/internal/expense"
)

func setupStore(t *testing.T) *Store {
	store, err := New(":memory:")
	require.NoError(t, err)
	return store
}

func makeRecord(t *testing.T, name, day, price, primary, secondary string) expense.Record {
	d := expense.NewDraft()
	require.NoError(t, d.SetName(name))
	require.NoError(t, d.SetDay(day))
	require.NoError(t, d.SetPrice(price))
	require.NoError(t, d.SetPrimary(primary))
	require.NoError(t, d.SetSecondary(secondary))
	rec, err := d.Complete()
	require.NoError(t, err)
	return rec
}

func TestStore_AppendAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	rec := makeRecord(t, "Pizza", "15", "10,50", "Out", "Dinner")
	require.NoError(t, store.Append(ctx, "Sep", rec))
	require.NoError(t, store.Append(ctx, "Mar", makeRecord(t, "Train", "3", "22.00", "Transport", "Regional")))

	rows, err := store.ListMonth(ctx, "Sep")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pizza", rows[0].Name)
	assert.Equal(t, 15, rows[0].Day)
	assert.Equal(t, "10.50", rows[0].Price)
	assert.Equal(t, "Out", rows[0].PrimaryCategory)
	assert.Equal(t, "Dinner", rows[0].SecondaryCategory)
	assert.NotEmpty(t, rows[0].ID)

	other, err := store.ListMonth(ctx, "Mar")
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "Train", other[0].Name)
}

func TestStore_EnsureWorksheetIsNoOp(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, store.EnsureWorksheet(context.Background(), "Jan"))
	require.NoError(t, store.EnsureWorksheet(context.Background(), "Jan"))
}
