package gmailclient

import (
	"encoding/base64"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/HiraG-62/maillet/internal/textutils"
)

// headerValue returns the named header from a message payload, matching
// case-insensitively.
func headerValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// ExtractPlainText walks a message's MIME tree and returns a plain-text
// body. A text/plain part is preferred; failing that the first text/html
// part is stripped to text. Returns "" when the message carries neither.
func ExtractPlainText(msg *gmail.Message) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	if plain := findPart(msg.Payload, "text/plain"); plain != "" {
		return plain
	}
	if html := findPart(msg.Payload, "text/html"); html != "" {
		return textutils.HTMLToText(html)
	}
	return ""
}

// findPart depth-first searches the part tree for the first part of the
// given MIME type with decodable body data.
func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if strings.HasPrefix(part.MimeType, mimeType) && part.Body != nil && part.Body.Data != "" {
		if text := decodeBody(part.Body.Data); text != "" {
			return text
		}
	}
	for _, child := range part.Parts {
		if text := findPart(child, mimeType); text != "" {
			return text
		}
	}
	return ""
}

// decodeBody decodes Gmail body data, which is base64url without padding,
// tolerating the padded variant.
func decodeBody(data string) string {
	if raw, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(raw)
	}
	if raw, err := base64.URLEncoding.DecodeString(data); err == nil {
		return string(raw)
	}
	return ""
}
