package mailbox

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailbox struct {
	pages     [][]string
	listCalls int
	messages  map[string]RawMessage
}

func (f *fakeMailbox) ListMessageIDs(_ context.Context, _ string, _ int64, pageToken string) ([]string, string, error) {
	f.listCalls++
	idx := 0
	if pageToken != "" {
		idx = int(pageToken[0] - '0')
	}
	if idx >= len(f.pages) {
		return nil, "", nil
	}
	next := ""
	if idx+1 < len(f.pages) {
		next = string(rune('0' + idx + 1))
	}
	return f.pages[idx], next, nil
}

func (f *fakeMailbox) GetMessage(_ context.Context, id string) (RawMessage, error) {
	msg, ok := f.messages[id]
	if !ok {
		return RawMessage{ID: id, Subject: "subject " + id}, nil
	}
	return msg, nil
}

func (f *fakeMailbox) ListLabels(context.Context) ([]Label, error)      { return nil, nil }
func (f *fakeMailbox) CreateLabel(context.Context, string) (string, error) { return "", nil }
func (f *fakeMailbox) ApplyLabel(context.Context, string, string) error { return nil }

func TestFetchMessages_SkipsExcludedIDs(t *testing.T) {
	fake := &fakeMailbox{pages: [][]string{{"a", "b", "c", "d"}}}
	exclude := map[string]struct{}{"a": {}, "c": {}}

	msgs, err := FetchMessages(context.Background(), fake, log.New(io.Discard), "is:unread", 10, exclude)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "b", msgs[0].ID)
	assert.Equal(t, "d", msgs[1].ID)
}

func TestFetchMessages_StopsAtMaxResults(t *testing.T) {
	fake := &fakeMailbox{pages: [][]string{{"a", "b", "c", "d", "e"}}}

	msgs, err := FetchMessages(context.Background(), fake, log.New(io.Discard), "is:inbox", 3, nil)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
}

func TestFetchMessages_FollowsPagination(t *testing.T) {
	fake := &fakeMailbox{pages: [][]string{{"a", "b"}, {"c", "d"}}}
	exclude := map[string]struct{}{"a": {}, "b": {}, "c": {}}

	msgs, err := FetchMessages(context.Background(), fake, log.New(io.Discard), "is:inbox", 2, exclude)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "d", msgs[0].ID)
	assert.Equal(t, 2, fake.listCalls)
}

func TestFetchMessages_NoMatches(t *testing.T) {
	fake := &fakeMailbox{}

	msgs, err := FetchMessages(context.Background(), fake, log.New(io.Discard), "is:inbox", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
