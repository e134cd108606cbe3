package mailbox

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const gmailUser = "me"

// ErrLabelExists reports a label-name collision on creation.
var ErrLabelExists = errors.New("label name exists")

// GmailClient implements Mailbox on top of the Gmail API.
type GmailClient struct {
	srv    *gmail.Service
	logger *log.Logger
}

// NewGmailClient builds a client from pre-authorized options, typically
// option.WithHTTPClient wrapping an OAuth http.Client (see NewOAuthHTTPClient).
func NewGmailClient(ctx context.Context, logger *log.Logger, opts ...option.ClientOption) (*GmailClient, error) {
	srv, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create gmail service")
	}
	return &GmailClient{srv: srv, logger: logger}, nil
}

func (c *GmailClient) ListMessageIDs(ctx context.Context, query string, maxResults int64, pageToken string) ([]string, string, error) {
	call := c.srv.Users.Messages.List(gmailUser).Q(query).MaxResults(maxResults).Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", errors.Wrap(err, "list messages")
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, resp.NextPageToken, nil
}

func (c *GmailClient) GetMessage(ctx context.Context, id string) (RawMessage, error) {
	msg, err := c.srv.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return RawMessage{}, errors.Wrapf(err, "get message %s", id)
	}

	raw := RawMessage{
		ID:        msg.Id,
		Subject:   "No Subject",
		Sender:    "Unknown Sender",
		Recipient: "Unknown Recipient",
		Snippet:   msg.Snippet,
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				raw.Subject = h.Value
			case "From":
				raw.Sender = h.Value
			case "To":
				raw.Recipient = h.Value
			}
		}
		raw.Body = convertPart(msg.Payload)
	}
	return raw, nil
}

func convertPart(p *gmail.MessagePart) BodyPart {
	out := BodyPart{MimeType: p.MimeType}
	if p.Body != nil {
		out.Data = p.Body.Data
	}
	for _, child := range p.Parts {
		out.Parts = append(out.Parts, convertPart(child))
	}
	return out
}

func (c *GmailClient) ListLabels(ctx context.Context) ([]Label, error) {
	resp, err := c.srv.Users.Labels.List(gmailUser).Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "list labels")
	}
	labels := make([]Label, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		labels = append(labels, Label{ID: l.Id, Name: l.Name})
	}
	return labels, nil
}

func (c *GmailClient) CreateLabel(ctx context.Context, name string) (string, error) {
	created, err := c.srv.Users.Labels.Create(gmailUser, &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		if isLabelConflict(err) {
			return "", ErrLabelExists
		}
		return "", errors.Wrapf(err, "create label %s", name)
	}
	c.logger.Info("Created label", "name", name, "id", created.Id)
	return created.Id, nil
}

func isLabelConflict(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 409 {
		return true
	}
	return strings.Contains(err.Error(), "Label name exists")
}

func (c *GmailClient) ApplyLabel(ctx context.Context, messageID, labelID string) error {
	_, err := c.srv.Users.Messages.Modify(gmailUser, messageID, &gmail.ModifyMessageRequest{
		AddLabelIds: []string{labelID},
	}).Context(ctx).Do()
	if err != nil {
		return errors.Wrapf(err, "apply label %s to message %s", labelID, messageID)
	}
	return nil
}
