package core

// MediaExtractor picks at most one usable image out of an inbound event.
// Pure classification: no network, no disk.
type MediaExtractor struct {
	allowed map[string]bool
	maxSize int64
}

func NewMediaExtractor(conf *Config) *MediaExtractor {
	allowed := make(map[string]bool, len(conf.AllowedImageTypes))
	for _, mime := range conf.AllowedImageTypes {
		allowed[mime] = true
	}
	return &MediaExtractor{
		allowed: allowed,
		maxSize: conf.MaxImageSize,
	}
}

// Extract prefers media attached to the event itself; only when the event
// carries none does it look at the replied-to message, one level deep.
func (x *MediaExtractor) Extract(event InboundEvent) *MediaReference {
	if event.Media != nil {
		return x.admit(event.Media)
	}
	if event.ReplyTo != nil && event.ReplyTo.Media != nil {
		return x.admit(event.ReplyTo.Media)
	}
	return nil
}

// admit applies the admission rules: photos come from the transport already
// verified as images, documents must match the mime whitelist and stay
// strictly under the size ceiling.
func (x *MediaExtractor) admit(media *MediaReference) *MediaReference {
	if media.Kind == MediaPhoto {
		return media
	}
	if x.allowed[media.MimeType] && media.FileSize < x.maxSize {
		return media
	}
	return nil
}
