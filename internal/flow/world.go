package flow

import (
	"sync"

	"github.com/gsantin/spesebot/internal/expense"
)

// World holds the process-wide mutable state shared by all flows: the active
// month partition. It is deliberately not conversant-scoped; the bot serves
// one operator and the month selection applies to every subsequent append.
type World struct {
	mu    sync.RWMutex
	month string
}

func NewWorld() *World {
	return &World{month: expense.DefaultMonth}
}

// Month returns the currently active month token.
func (w *World) Month() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.month
}

// SetMonth switches the active month partition.
func (w *World) SetMonth(token string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.month = token
}
