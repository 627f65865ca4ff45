package bot

import (
	"context"
	"log/slog"

	"Espro/ai"
	"Espro/core"
	"Espro/holder"
	"Espro/lib/sl"
)

const (
	errorResponse = "Sorry, I'm not feeling well today. Please try again later."
	defaultPrompt = "What's this?"
)

// Dispatcher classifies each inbound event and drives the completion flow.
// It is the only place where failures turn into user-facing text.
type Dispatcher struct {
	conf      *core.Config
	log       *slog.Logger
	models    *holder.ModelHolder
	chat      core.Completer
	extractor *core.MediaExtractor
}

func NewDispatcher(conf *core.Config, log *slog.Logger, models *holder.ModelHolder, chat core.Completer) *Dispatcher {
	return &Dispatcher{
		conf:      conf,
		log:       log.With(sl.Module("dispatcher")),
		models:    models,
		chat:      chat,
		extractor: core.NewMediaExtractor(conf),
	}
}

func (d *Dispatcher) HandleMessage(ctx context.Context, event core.InboundEvent) []core.OutboundEvent {
	if event.Command != "" {
		return d.handleCommand(ctx, event)
	}

	// media always wins over the stored text-model preference
	if media := d.extractor.Extract(event); media != nil {
		return d.complete(ctx, event, core.CompletionRequest{
			Prompt: promptOr(event.Text),
			Model:  ai.VisionModel,
			Media:  []core.MediaReference{*media},
		})
	}

	if event.Text != "" {
		return d.complete(ctx, event, core.CompletionRequest{
			Prompt: event.Text,
			Model:  d.models.GetModel(event.SenderID),
		})
	}

	return d.reply(event, d.greeting())
}

func (d *Dispatcher) handleCommand(ctx context.Context, event core.InboundEvent) []core.OutboundEvent {
	switch event.Command {
	case "start":
		return d.reply(event, d.greeting())
	case "ping":
		return d.reply(event, "pong")
	}

	model, err := ai.Resolve(event.Command)
	if err != nil || model.AcceptsImages {
		return d.reply(event, d.greeting())
	}

	d.models.SetModel(event.SenderID, model.Name)
	d.log.With(
		slog.Int64("user", event.SenderID),
		slog.String("model", model.Name),
	).Info("model selected")

	media := d.extractor.Extract(event)
	if event.Text == "" && media == nil {
		return d.reply(event, "Now answering with "+model.Name+".")
	}

	// the command carried a prompt or an image, answer right away
	if media != nil {
		return d.complete(ctx, event, core.CompletionRequest{
			Prompt: promptOr(event.Text),
			Model:  ai.VisionModel,
			Media:  []core.MediaReference{*media},
		})
	}
	return d.complete(ctx, event, core.CompletionRequest{
		Prompt: event.Text,
		Model:  model.Name,
	})
}

func (d *Dispatcher) complete(ctx context.Context, event core.InboundEvent, req core.CompletionRequest) []core.OutboundEvent {
	result, err := d.chat.Complete(ctx, req)
	if err != nil {
		d.log.With(
			slog.Int64("user", event.SenderID),
			slog.String("model", req.Model),
		).Error("completion failed", sl.Err(err))
		return d.reply(event, errorResponse)
	}
	return renderResult(event, result)
}

func (d *Dispatcher) reply(event core.InboundEvent, text string) []core.OutboundEvent {
	return []core.OutboundEvent{{ReplyTo: event.MessageID, Text: text}}
}

func (d *Dispatcher) greeting() string {
	text := "Hello, How can I assist you today?\n"
	text += "You can use the following commands:\n"
	text += "/start - show this message\n"
	text += "/ping - check that I'm alive\n"
	for _, name := range ai.TextModels() {
		text += "/" + name + " - answer with " + name + "\n"
	}
	return text
}

func promptOr(text string) string {
	if text == "" {
		return defaultPrompt
	}
	return text
}
