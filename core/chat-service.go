package core

import "context"

type ChatService interface {
	HandleMessage(ctx context.Context, event InboundEvent) []OutboundEvent
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResult, error)
}

// MediaTransport materializes remote media locally. Remove is best-effort:
// implementations log failures and never report them to the caller.
type MediaTransport interface {
	Download(ctx context.Context, media MediaReference) (string, error)
	Remove(path string)
}
