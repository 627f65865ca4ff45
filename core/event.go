package core

type MediaKind int

const (
	MediaPhoto MediaKind = iota
	MediaDocument
)

// MediaReference points to a file held by the transport. The core never
// constructs one itself, it only reads what arrived with a message.
type MediaReference struct {
	FileID   string
	Kind     MediaKind
	MimeType string
	FileSize int64
}

// InboundEvent is a transport-agnostic view of one incoming message.
type InboundEvent struct {
	MessageID int
	ChatID    int64
	SenderID  int64
	IsGroup   bool
	Text      string
	Command   string
	Media     *MediaReference
	ReplyTo   *InboundEvent
}

type CompletionRequest struct {
	Prompt string
	Model  string
	Media  []MediaReference
}

type ResultKind int

const (
	ResultText ResultKind = iota
	ResultTextWithImages
)

// CompletionResult is the normalized provider answer: plain text, or text
// with an ordered set of image URLs.
type CompletionResult struct {
	Kind   ResultKind
	Text   string
	Images []string
}

// OutboundEvent is one reply to send. With Images present it is a media
// group and Text is the caption of the first image; otherwise a text reply.
type OutboundEvent struct {
	ReplyTo int
	Text    string
	Images  []string
}
