package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_SetDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    int
	}{
		{"valid low", "1", false, 1},
		{"valid high", "31", false, 31},
		{"valid padded", " 15 ", false, 15},
		{"empty", "", true, 0},
		{"non numeric", "abc", true, 0},
		{"zero", "0", true, 0},
		{"too large", "32", true, 0},
		{"decimal", "3.5", true, 0},
		{"negative", "-2", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDraft()
			err := d.SetDay(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				assert.False(t, d.hasDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.day)
		})
	}
}

func TestDraft_SetPrice(t *testing.T) {
	t.Run("comma and dot normalize to the same value", func(t *testing.T) {
		a := NewDraft()
		b := NewDraft()
		require.NoError(t, a.SetPrice("12,50"))
		require.NoError(t, b.SetPrice("12.50"))
		assert.True(t, a.price.Equal(b.price))
		assert.Equal(t, "12.50", a.price.StringFixed(2))
	})

	for _, input := range []string{"", "abc", "0", "-5", "0,00"} {
		t.Run("rejects "+input, func(t *testing.T) {
			d := NewDraft()
			err := d.SetPrice(input)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}
}

func TestDraft_SetName(t *testing.T) {
	d := NewDraft()
	require.Error(t, d.SetName("   "))
	require.NoError(t, d.SetName("  Pizza  "))
	assert.Equal(t, "Pizza", d.name)
}

func TestDraft_SetSecondary(t *testing.T) {
	d := NewDraft()
	require.Error(t, d.SetSecondary(""))
	require.Error(t, d.SetSecondary(" \t"))
	require.NoError(t, d.SetSecondary("Dinner"))
}

func TestDraft_SetPrimary(t *testing.T) {
	d := NewDraft()
	require.Error(t, d.SetPrimary("NotACategory"))
	require.NoError(t, d.SetPrimary("Out"))
	assert.Equal(t, CategoryOut, d.primary)
}

func TestDraft_Complete(t *testing.T) {
	d := NewDraft()
	_, err := d.Complete()
	require.Error(t, err)

	require.NoError(t, d.SetName("Pizza"))
	require.NoError(t, d.SetDay("15"))
	require.NoError(t, d.SetPrice("10,50"))
	require.NoError(t, d.SetPrimary("Out"))

	_, err = d.Complete()
	require.Error(t, err, "secondary still missing")

	require.NoError(t, d.SetSecondary("Dinner"))
	rec, err := d.Complete()
	require.NoError(t, err)
	assert.Equal(t, "Pizza", rec.Name)
	assert.Equal(t, 15, rec.Day)
	assert.Equal(t, "10.50", rec.Price.StringFixed(2))
	assert.Equal(t, CategoryOut, rec.Primary)
	assert.Equal(t, "Dinner", rec.Secondary)
}

func TestRecord_Summary(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.SetName("Pizza"))
	require.NoError(t, d.SetDay("15"))
	require.NoError(t, d.SetPrice("10,5"))
	require.NoError(t, d.SetPrimary("Out"))
	require.NoError(t, d.SetSecondary("Dinner"))

	rec, err := d.Complete()
	require.NoError(t, err)

	summary := rec.Summary()
	assert.Contains(t, summary, "Name: Pizza")
	assert.Contains(t, summary, "Day: 15")
	assert.Contains(t, summary, "Price: 10.50")
	assert.Contains(t, summary, "Primary category: Out")
	assert.Contains(t, summary, "Secondary category: Dinner")
}

func TestRecord_Row(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.SetName("Pizza"))
	require.NoError(t, d.SetDay("15"))
	require.NoError(t, d.SetPrice("10.50"))
	require.NoError(t, d.SetPrimary("Out"))
	require.NoError(t, d.SetSecondary("Dinner"))
	rec, err := d.Complete()
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"Pizza", 15, "10.50", "Out", "Dinner"}, rec.Row())
}

func TestValidMonth(t *testing.T) {
	assert.True(t, ValidMonth("Mar"))
	assert.True(t, ValidMonth(DefaultMonth))
	assert.False(t, ValidMonth("March"))
	assert.False(t, ValidMonth(""))
}
