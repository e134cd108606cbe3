package classify

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/prompts"
)

type fakeModel struct {
	response      string
	err           error
	contextLength int
	calls         int
	lastPrompt    string
}

func (f *fakeModel) Generate(_ context.Context, _, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeModel) ContextLength() int             { return f.contextLength }
func (f *fakeModel) CountTokens(string) (int, bool) { return 0, false }

func newTestClassifier(t *testing.T, model *fakeModel) *Classifier {
	t.Helper()
	composer, err := prompts.NewComposer("Subject: {subject}\nSnippet: {snippet}\nBody: {body}")
	require.NoError(t, err)
	return NewClassifier(log.New(io.Discard), model, composer)
}

func TestClassify_ReturnsNormalizedCategory(t *testing.T) {
	model := &fakeModel{response: "  **Work**  "}
	c := newTestClassifier(t, model)

	category, err := c.Classify(context.Background(), "subj", "snip", "body")
	require.NoError(t, err)
	assert.Equal(t, "Work", category)
	assert.Contains(t, model.lastPrompt, "Subject: subj")
	assert.Contains(t, model.lastPrompt, "Body: body")
}

func TestClassify_ContextErrorIsOverflow(t *testing.T) {
	c := newTestClassifier(t, &fakeModel{err: errors.New("maximum context length exceeded")})

	_, err := c.Classify(context.Background(), "s", "sn", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContextOverflow))
}

func TestClassify_TokenErrorIsOverflow(t *testing.T) {
	c := newTestClassifier(t, &fakeModel{err: errors.New("too many tokens in request")})

	_, err := c.Classify(context.Background(), "s", "sn", "b")
	assert.True(t, errors.Is(err, ErrContextOverflow))
}

func TestClassify_OtherErrorsAreUnavailable(t *testing.T) {
	c := newTestClassifier(t, &fakeModel{err: errors.New("connection refused")})

	_, err := c.Classify(context.Background(), "s", "sn", "b")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.False(t, errors.Is(err, ErrContextOverflow))
}

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Work", "Work"},
		{"  Work \n", "Work"},
		{"**Work**", "Work"},
		{"*Promotions*", "Promotions"},
		{"```\nWork\n```", "Work"},
		{"```text\nPersonal\n```", "Personal"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeCategory(tc.in), "input %q", tc.in)
	}
}
