package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Espro/core"
)

func TestRenderResultText(t *testing.T) {
	event := core.InboundEvent{MessageID: 7}
	replies := renderResult(event, core.CompletionResult{Kind: core.ResultText, Text: "hello"})

	require.Len(t, replies, 1)
	assert.Equal(t, "hello", replies[0].Text)
	assert.Equal(t, 7, replies[0].ReplyTo)
	assert.Empty(t, replies[0].Images)
}

func TestRenderResultEmptyImageSetDegrades(t *testing.T) {
	event := core.InboundEvent{MessageID: 7}
	replies := renderResult(event, core.CompletionResult{
		Kind: core.ResultTextWithImages,
		Text: "caption only",
	})

	require.Len(t, replies, 1)
	assert.Equal(t, "caption only", replies[0].Text)
	assert.Empty(t, replies[0].Images)
}

func TestRenderResultImageSet(t *testing.T) {
	event := core.InboundEvent{MessageID: 7}
	replies := renderResult(event, core.CompletionResult{
		Kind:   core.ResultTextWithImages,
		Text:   "three views",
		Images: []string{"https://img/1", "https://img/2", "https://img/3"},
	})

	require.Len(t, replies, 1)
	assert.Equal(t, []string{"https://img/1", "https://img/2", "https://img/3"}, replies[0].Images)
}

func TestMediaGroupItemsCaptionOnFirstOnly(t *testing.T) {
	items := mediaGroupItems(core.OutboundEvent{
		Text:   "the caption",
		Images: []string{"https://img/1", "https://img/2", "https://img/3"},
	})

	require.Len(t, items, 3)
	first, ok := items[0].(tgbotapi.InputMediaPhoto)
	require.True(t, ok)
	assert.Equal(t, "the caption", first.Caption)

	for _, item := range items[1:] {
		photo, ok := item.(tgbotapi.InputMediaPhoto)
		require.True(t, ok)
		assert.Empty(t, photo.Caption)
	}
}
