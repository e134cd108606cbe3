// Package mailbox exposes the mailbox capability used by the organizer
// pipeline and its Gmail implementation.
package mailbox

import "context"

// BodyPart mirrors the provider's MIME part tree. Data holds the
// base64url-encoded payload of leaf parts.
type BodyPart struct {
	MimeType string
	Data     string
	Parts    []BodyPart
}

// RawMessage is one fetched message. It is owned by the transport layer and
// read-only to the pipeline.
type RawMessage struct {
	ID        string
	Subject   string
	Sender    string
	Recipient string
	Snippet   string
	Body      BodyPart
}

// Label is a mailbox tag as the provider reports it.
type Label struct {
	ID   string
	Name string
}

// Mailbox is the provider-agnostic capability the pipeline consumes.
type Mailbox interface {
	ListMessageIDs(ctx context.Context, query string, maxResults int64, pageToken string) (ids []string, nextPageToken string, err error)
	GetMessage(ctx context.Context, id string) (RawMessage, error)
	ListLabels(ctx context.Context) ([]Label, error)
	// CreateLabel returns ErrLabelExists when the name is already taken.
	CreateLabel(ctx context.Context, name string) (string, error)
	ApplyLabel(ctx context.Context, messageID, labelID string) error
}
