package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsantin/spesebot/internal/expense"
)

func TestSessionStore_StartReplaces(t *testing.T) {
	store := NewSessionStore()

	first := store.Start(1, FlowManual, StepName)
	require.NoError(t, first.Draft.SetName("stale"))

	second := store.Start(1, FlowPhoto, StepPhoto)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get(1)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Nil(t, got.Draft, "photo sessions carry no draft")
}

func TestSessionStore_ManualSessionGetsFreshDraft(t *testing.T) {
	store := NewSessionStore()

	session := store.Start(1, FlowManual, StepName)
	require.NotNil(t, session.Draft)

	_, err := session.Draft.Complete()
	assert.Error(t, err, "fresh draft starts empty")
}

func TestSessionStore_ClearAndGet(t *testing.T) {
	store := NewSessionStore()

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Start(1, FlowMonthChange, StepMonth)
	store.Start(2, FlowManual, StepName)
	assert.Equal(t, 2, store.Len())

	store.Clear(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
	_, ok = store.Get(2)
	assert.True(t, ok)

	// Clearing an absent identity is harmless.
	store.Clear(99)
	assert.Equal(t, 1, store.Len())
}

func TestWorld_DefaultAndSet(t *testing.T) {
	world := NewWorld()
	assert.Equal(t, expense.DefaultMonth, world.Month())

	world.SetMonth("Mar")
	assert.Equal(t, "Mar", world.Month())
}
