package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"Espro/core"
	"Espro/lib/sl"
)

type TgBot struct {
	conf        *core.Config
	log         *slog.Logger
	api         *tgbotapi.BotAPI
	chat        core.ChatService
	botUsername string
	client      *http.Client
}

func NewTgBot(conf *core.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBotAPI(conf.TelegramApiKey)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(conf.DownloadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download dir: %w", err)
	}

	username := conf.Username
	if username == "" {
		username = api.Self.UserName
	}

	return &TgBot{
		conf:        conf,
		log:         log.With(sl.Module("tgbot")),
		api:         api,
		botUsername: username,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// SetChat set chat service
func (t *TgBot) SetChat(chat core.ChatService) {
	t.chat = chat
}

func (t *TgBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.api.GetUpdatesChan(u)
	t.log.Info("listening for updates", slog.String("username", t.botUsername))

	for update := range updates {
		if update.Message == nil {
			continue
		}

		incoming := update.Message
		if incoming.From == nil || incoming.From.IsBot {
			continue
		}

		event := t.toEvent(incoming)

		// in groups only react to commands, mentions and replies to the bot
		if event.Command == "" && event.IsGroup && !t.isMentioned(event.Text) && !t.isReplyToBot(incoming) {
			continue
		}

		logText := event.Text
		if len(logText) > 50 {
			logText = logText[:50] + "..."
		}
		t.log.With(
			slog.String("user", incoming.From.UserName),
			slog.String("text", logText),
		).Info("incoming message")

		go t.handle(event)
	}
	return nil
}

func (t *TgBot) Stop() {
	t.api.StopReceivingUpdates()
}

func (t *TgBot) handle(event core.InboundEvent) {
	t.sendChatAction(event.ChatID, tgbotapi.ChatTyping)

	replies := t.chat.HandleMessage(context.Background(), event)
	for _, reply := range replies {
		t.send(event.ChatID, reply)
	}
}

func (t *TgBot) send(chatId int64, reply core.OutboundEvent) {
	if len(reply.Images) > 0 {
		group := tgbotapi.NewMediaGroup(chatId, mediaGroupItems(reply))
		group.ReplyToMessageID = reply.ReplyTo
		if _, err := t.api.SendMediaGroup(group); err != nil {
			t.log.Error("sending media group", sl.Err(err))
		}
		return
	}

	msg := tgbotapi.NewMessage(chatId, reply.Text)
	msg.ReplyToMessageID = reply.ReplyTo
	if _, err := t.api.Send(msg); err != nil {
		t.log.Error("sending message", sl.Err(err))
	}
}

func (t *TgBot) sendChatAction(chatId int64, action string) {
	msg := tgbotapi.NewChatAction(chatId, action)
	if _, err := t.api.Request(msg); err != nil {
		t.log.Error("sending chat action", sl.Err(err))
	}
}

// toEvent maps a telegram message onto the transport-agnostic event the
// dispatcher works with. Captions stand in for text on photo messages.
func (t *TgBot) toEvent(msg *tgbotapi.Message) core.InboundEvent {
	event := core.InboundEvent{
		MessageID: msg.MessageID,
		ChatID:    msg.Chat.ID,
		SenderID:  msg.From.ID,
		IsGroup:   !msg.Chat.IsPrivate(),
		Media:     mediaOf(msg),
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	event.Command, event.Text = t.parseCommand(text)

	if replied := msg.ReplyToMessage; replied != nil {
		replyText := replied.Text
		if replyText == "" {
			replyText = replied.Caption
		}
		replyEvent := core.InboundEvent{
			MessageID: replied.MessageID,
			ChatID:    replied.Chat.ID,
			Text:      replyText,
			Media:     mediaOf(replied),
		}
		if replied.From != nil {
			replyEvent.SenderID = replied.From.ID
		}
		event.ReplyTo = &replyEvent
	}

	return event
}

func mediaOf(msg *tgbotapi.Message) *core.MediaReference {
	if len(msg.Photo) > 0 {
		largest := msg.Photo[len(msg.Photo)-1]
		return &core.MediaReference{
			FileID:   largest.FileID,
			Kind:     core.MediaPhoto,
			FileSize: int64(largest.FileSize),
		}
	}
	if msg.Document != nil {
		return &core.MediaReference{
			FileID:   msg.Document.FileID,
			Kind:     core.MediaDocument,
			MimeType: msg.Document.MimeType,
			FileSize: int64(msg.Document.FileSize),
		}
	}
	return nil
}

// parseCommand splits "/name args" into the command name and the trailing
// text, stripping an optional @botname suffix from the name.
func (t *TgBot) parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	name, args, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	name, _, _ = strings.Cut(name, "@")
	return name, strings.TrimSpace(args)
}

// detect if we are mentioned in the message
func (t *TgBot) isMentioned(text string) bool {
	if t.botUsername != "" {
		return strings.Contains(text, "@"+t.botUsername)
	}
	return false
}

// detect if message is a reply to a message from the bot
func (t *TgBot) isReplyToBot(message *tgbotapi.Message) bool {
	if message.ReplyToMessage != nil && message.ReplyToMessage.From != nil {
		return message.ReplyToMessage.From.UserName == t.botUsername
	}
	return false
}

// Download materializes one media file under the download dir and returns
// its path. The caller owns the file and removes it when done.
func (t *TgBot) Download(ctx context.Context, media core.MediaReference) (string, error) {
	url, err := t.api.GetFileDirectURL(media.FileID)
	if err != nil {
		return "", fmt.Errorf("resolving file url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading file: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			t.log.Error("closing response body", sl.Err(err))
		}
	}(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading file: unexpected status %s", resp.Status)
	}

	file, err := os.CreateTemp(t.conf.DownloadDir, "ask-*"+extensionOf(media.MimeType))
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err = io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		t.Remove(file.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err = file.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return file.Name(), nil
}

// Remove deletes a downloaded file, best-effort.
func (t *TgBot) Remove(path string) {
	if err := os.Remove(path); err != nil {
		t.log.Warn("removing temp file", sl.Err(err))
	}
}

func extensionOf(mimeType string) string {
	if mimeType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
