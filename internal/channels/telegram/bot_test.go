package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsantin/spesebot/internal/flow"
)

func TestKeyboard(t *testing.T) {
	choices := []flow.Choice{
		{Label: "Yes", Token: "confirm"},
		{Label: "No", Token: "decline"},
	}

	markup := keyboard(choices)
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)

	button := markup.InlineKeyboard[0][0]
	assert.Equal(t, "Yes", button.Text)
	require.NotNil(t, button.CallbackData)
	assert.Equal(t, "confirm", *button.CallbackData)
}
