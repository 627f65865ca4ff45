package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"Espro/core"
	"Espro/lib/sl"
)

// Chat talks to the completion gateway. One attempt per request: a call
// either succeeds or the error goes back to the dispatcher.
type Chat struct {
	conf      *core.Config
	log       *slog.Logger
	transport core.MediaTransport
	client    *http.Client
}

func NewChat(conf *core.Config, log *slog.Logger) *Chat {
	return &Chat{
		conf: conf,
		log:  log.With(sl.Module("ai")),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SetTransport sets the collaborator used to stage image input locally.
func (c *Chat) SetTransport(transport core.MediaTransport) {
	c.transport = transport
}

func (c *Chat) Complete(ctx context.Context, req core.CompletionRequest) (core.CompletionResult, error) {
	var result core.CompletionResult

	model, err := Resolve(req.Model)
	if err != nil {
		return result, err
	}
	if len(req.Media) > 0 && !model.AcceptsImages {
		return result, core.ErrModelMismatch
	}

	images, cleanup, err := c.stageImages(ctx, req.Media)
	// every staged file is removed before Complete returns, success or not
	defer cleanup()
	if err != nil {
		return result, err
	}

	payload := NewPayload(model, req.Prompt, images)
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return result, fmt.Errorf("marshalling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.ApiUrl+"/models", bytes.NewReader(jsonBytes))
	if err != nil {
		return result, fmt.Errorf("making request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return result, &core.ProviderError{Err: err}
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Error("closing response body", sl.Err(err))
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, &core.ProviderError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return result, &core.ProviderError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	c.log.With(
		slog.String("model", model.Name),
		slog.String("body", string(body)),
	).Debug("response body")

	var response providerResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return result, &core.ProviderError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	result, err = normalize(model, response)
	if err != nil {
		return result, err
	}

	logText := result.Text
	if len(logText) > 50 {
		logText = logText[:50] + "..."
	}
	c.log.With(
		slog.String("model", model.Name),
		slog.String("text", logText),
		slog.Int("images", len(result.Images)),
	).Info("chat completion")

	return result, nil
}

// stageImages downloads each media reference to a local file and encodes it
// for the gateway payload. The returned cleanup removes every file that was
// created, including on the error path.
func (c *Chat) stageImages(ctx context.Context, media []core.MediaReference) ([]ImagePayload, func(), error) {
	var paths []string
	cleanup := func() {
		for _, path := range paths {
			c.transport.Remove(path)
		}
	}

	images := make([]ImagePayload, 0, len(media))
	for _, m := range media {
		path, err := c.transport.Download(ctx, m)
		if err != nil {
			return nil, cleanup, fmt.Errorf("downloading media: %w", err)
		}
		paths = append(paths, path)

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("reading media: %w", err)
		}

		mimeType := m.MimeType
		if mimeType == "" {
			// photos arrive without a declared type
			mimeType = "image/jpeg"
		}
		images = append(images, ImagePayload{
			Data:     base64.StdEncoding.EncodeToString(data),
			MimeType: mimeType,
		})
	}
	return images, cleanup, nil
}

// normalize converts the provider shape selected by the registry flags into
// the two-variant result every downstream component works with.
func normalize(model Model, response providerResponse) (core.CompletionResult, error) {
	if model.ReturnsImageSet {
		var text string
		if err := json.Unmarshal(response.Content, &text); err != nil {
			return core.CompletionResult{}, &core.ProviderError{Err: fmt.Errorf("decoding content: %w", err)}
		}
		return core.CompletionResult{
			Kind:   core.ResultTextWithImages,
			Text:   text,
			Images: response.Images,
		}, nil
	}

	if model.ReturnsMultiPartText {
		var content multiPartContent
		if err := json.Unmarshal(response.Content, &content); err != nil {
			return core.CompletionResult{}, &core.ProviderError{Err: fmt.Errorf("decoding content parts: %w", err)}
		}
		if len(content.Parts) == 0 {
			return core.CompletionResult{}, &core.ProviderError{Err: errors.New("empty content parts")}
		}
		return core.CompletionResult{Kind: core.ResultText, Text: content.Parts[0].Text}, nil
	}

	var text string
	if err := json.Unmarshal(response.Content, &text); err != nil {
		return core.CompletionResult{}, &core.ProviderError{Err: fmt.Errorf("decoding content: %w", err)}
	}
	return core.CompletionResult{Kind: core.ResultText, Text: text}, nil
}
