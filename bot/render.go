package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"Espro/core"
)

// renderResult turns a normalized completion into outbound replies. A result
// with images but an empty set degrades to a plain text reply.
func renderResult(event core.InboundEvent, result core.CompletionResult) []core.OutboundEvent {
	if result.Kind == core.ResultTextWithImages && len(result.Images) > 0 {
		return []core.OutboundEvent{{
			ReplyTo: event.MessageID,
			Text:    result.Text,
			Images:  result.Images,
		}}
	}
	return []core.OutboundEvent{{ReplyTo: event.MessageID, Text: result.Text}}
}

// mediaGroupItems builds the photo list for one media-group send. The caption
// goes on the first photo only, the rest stay bare.
func mediaGroupItems(event core.OutboundEvent) []interface{} {
	items := make([]interface{}, 0, len(event.Images))
	for i, url := range event.Images {
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileURL(url))
		if i == 0 {
			photo.Caption = event.Text
		}
		items = append(items, photo)
	}
	return items
}
