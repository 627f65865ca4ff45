package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Espro/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransport materializes fixed bytes into real temp files so the
// cleanup path can be observed.
type fakeTransport struct {
	dir        string
	data       []byte
	downloaded []string
	removed    []string
	failWith   error
}

func (f *fakeTransport) Download(_ context.Context, _ core.MediaReference) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	file, err := os.CreateTemp(f.dir, "ask-*")
	if err != nil {
		return "", err
	}
	if _, err = file.Write(f.data); err != nil {
		return "", err
	}
	if err = file.Close(); err != nil {
		return "", err
	}
	f.downloaded = append(f.downloaded, file.Name())
	return file.Name(), nil
}

func (f *fakeTransport) Remove(path string) {
	f.removed = append(f.removed, path)
	_ = os.Remove(path)
}

func newTestChat(t *testing.T, handler http.HandlerFunc) (*Chat, *fakeTransport) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conf := &core.Config{ApiUrl: server.URL}
	chat := NewChat(conf, testLogger())
	transport := &fakeTransport{dir: t.TempDir(), data: []byte("image-bytes")}
	chat.SetTransport(transport)
	return chat, transport
}

func TestCompletePlainText(t *testing.T) {
	var got CompletionPayload
	chat, _ := newTestChat(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"content":"the answer is 42"}`))
	})

	result, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "meaning of life",
		Model:  "gpt",
	})
	require.NoError(t, err)

	assert.Equal(t, core.ResultText, result.Kind)
	assert.Equal(t, "the answer is 42", result.Text)
	assert.Empty(t, result.Images)
	assert.Equal(t, 5, got.ModelID)
	assert.Equal(t, "meaning of life", got.Prompt)
	assert.Empty(t, got.Images)
}

func TestCompleteMultiPartText(t *testing.T) {
	var got CompletionPayload
	chat, transport := newTestChat(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"content":{"parts":[{"text":"a grey cat"},{"text":"ignored"}]}}`))
	})

	result, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "What's this?",
		Model:  VisionModel,
		Media:  []core.MediaReference{{FileID: "p1", Kind: core.MediaPhoto}},
	})
	require.NoError(t, err)

	assert.Equal(t, core.ResultText, result.Kind)
	assert.Equal(t, "a grey cat", result.Text)

	require.Len(t, got.Images, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("image-bytes")), got.Images[0].Data)
	assert.Equal(t, "image/jpeg", got.Images[0].MimeType)

	// the staged file must be gone once the call returns
	require.Len(t, transport.downloaded, 1)
	assert.Equal(t, transport.downloaded, transport.removed)
	_, statErr := os.Stat(transport.downloaded[0])
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompleteMultiPartEmptyParts(t *testing.T) {
	chat, _ := newTestChat(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":{"parts":[]}}`))
	})

	_, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "What's this?",
		Model:  VisionModel,
		Media:  []core.MediaReference{{FileID: "p1", Kind: core.MediaPhoto}},
	})

	var provErr *core.ProviderError
	assert.ErrorAs(t, err, &provErr)
}

func TestCompleteImageSet(t *testing.T) {
	chat, _ := newTestChat(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":"two views","images":["https://img/1","https://img/2"]}`))
	})

	result, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "show me",
		Model:  "bard",
	})
	require.NoError(t, err)

	assert.Equal(t, core.ResultTextWithImages, result.Kind)
	assert.Equal(t, "two views", result.Text)
	assert.Equal(t, []string{"https://img/1", "https://img/2"}, result.Images)
}

func TestCompleteImageSetEmpty(t *testing.T) {
	chat, _ := newTestChat(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":"nothing to show","images":[]}`))
	})

	result, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "show me",
		Model:  "bard",
	})
	require.NoError(t, err)

	assert.Equal(t, core.ResultTextWithImages, result.Kind)
	assert.Equal(t, "nothing to show", result.Text)
	assert.Empty(t, result.Images)
}

func TestCompleteUnknownModel(t *testing.T) {
	chat, _ := newTestChat(t, func(http.ResponseWriter, *http.Request) {
		t.Error("provider must not be called")
	})

	_, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "hi",
		Model:  "palm",
	})
	assert.ErrorIs(t, err, core.ErrUnknownModel)
}

func TestCompleteModelMismatch(t *testing.T) {
	chat, transport := newTestChat(t, func(http.ResponseWriter, *http.Request) {
		t.Error("provider must not be called")
	})

	_, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "hi",
		Model:  "gpt",
		Media:  []core.MediaReference{{FileID: "p1", Kind: core.MediaPhoto}},
	})
	assert.ErrorIs(t, err, core.ErrModelMismatch)
	assert.Empty(t, transport.downloaded)
}

func TestCompleteProviderFailure(t *testing.T) {
	chat, _ := newTestChat(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "hi",
		Model:  "gpt",
	})

	var provErr *core.ProviderError
	assert.ErrorAs(t, err, &provErr)
}

func TestCompleteDownloadFailure(t *testing.T) {
	chat, transport := newTestChat(t, func(http.ResponseWriter, *http.Request) {
		t.Error("provider must not be called")
	})
	transport.failWith = errors.New("file gone")

	_, err := chat.Complete(context.Background(), core.CompletionRequest{
		Prompt: "What's this?",
		Model:  VisionModel,
		Media:  []core.MediaReference{{FileID: "p1", Kind: core.MediaPhoto}},
	})
	require.Error(t, err)
	assert.Empty(t, transport.downloaded)
}
