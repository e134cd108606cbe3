package mailbox

import (
	"encoding/base64"
	"strings"

	"github.com/jaytaylor/html2text"
)

// ExtractBody walks the part tree and returns the best-effort text body.
// Preference order per node: a text/plain leaf among the immediate children,
// then a text/html leaf, then the first non-empty result of recursing into
// multipart children, then the node's own data. Decoding failures are
// treated as missing data, never as errors, so the result for a message with
// no decodable leaf is the empty string.
func ExtractBody(part BodyPart) string {
	if len(part.Parts) > 0 {
		for _, p := range part.Parts {
			if p.MimeType == "text/plain" {
				if text := decodeLeaf(p); text != "" {
					return text
				}
			}
		}
		for _, p := range part.Parts {
			if strings.HasPrefix(p.MimeType, "text/html") {
				if text := renderHTML(decodeLeaf(p)); text != "" {
					return text
				}
			}
		}
		for _, p := range part.Parts {
			if strings.HasPrefix(p.MimeType, "multipart/") {
				if body := ExtractBody(p); body != "" {
					return body
				}
			}
		}
	}

	if part.Data != "" {
		text := decodeLeaf(part)
		if strings.HasPrefix(part.MimeType, "text/html") {
			return renderHTML(text)
		}
		return text
	}
	return ""
}

func decodeLeaf(p BodyPart) string {
	if p.Data == "" {
		return ""
	}
	b, err := decodeBase64URL(p.Data)
	if err != nil {
		return ""
	}
	return b
}

// Gmail pads inconsistently, so normalize before decoding.
func decodeBase64URL(s string) (string, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	b, err := base64.StdEncoding.DecodeString(s)
	return string(b), err
}

func renderHTML(raw string) string {
	if raw == "" {
		return ""
	}
	text, err := html2text.FromString(raw, html2text.Options{OmitLinks: true, TextOnly: true})
	if err != nil {
		return raw
	}
	return text
}
