package ai

import "encoding/json"

type ImagePayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

type CompletionPayload struct {
	ModelID int            `json:"model_id"`
	Prompt  string         `json:"prompt"`
	Images  []ImagePayload `json:"images,omitempty"`
}

// providerResponse covers the three shapes the gateway produces: content as
// a plain string, content as a parts object, and content plus an image list.
// Content stays raw until the registry flags say how to read it.
type providerResponse struct {
	Content json.RawMessage `json:"content"`
	Images  []string        `json:"images"`
}

type multiPartContent struct {
	Parts []struct {
		Text string `json:"text"`
	} `json:"parts"`
}

func NewPayload(model Model, prompt string, images []ImagePayload) *CompletionPayload {
	return &CompletionPayload{
		ModelID: model.ModelID,
		Prompt:  prompt,
		Images:  images,
	}
}
