// Package classify turns fetched messages into classification records: it
// composes the prompt, calls the configured model backend, and normalizes
// the answer into a clean category string.
package classify

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/ai"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/prompts"
)

// Uncategorized marks a message whose classification failed. It is never
// created or applied as a mailbox label.
const Uncategorized = "Uncategorized"

const systemPrompt = "You are an email categorization assistant."

var (
	// ErrContextOverflow means the prompt did not fit the model context.
	ErrContextOverflow = errors.New("prompt exceeds model context")
	// ErrModelUnavailable covers every other backend failure.
	ErrModelUnavailable = errors.New("model backend unavailable")
)

// Classifier sends composed prompts to one backend. It returns errors to
// the caller instead of swallowing them; coercing failures to the
// Uncategorized sentinel is the batch loop's policy, kept visible there.
type Classifier struct {
	model    ai.Model
	composer *prompts.Composer
	logger   *log.Logger
}

func NewClassifier(logger *log.Logger, model ai.Model, composer *prompts.Composer) *Classifier {
	return &Classifier{model: model, composer: composer, logger: logger}
}

// Classify composes a prompt for one message's fields and asks the backend
// for a category.
func (c *Classifier) Classify(ctx context.Context, subject, snippet, body string) (string, error) {
	prompt := c.composer.Compose(subject, snippet, body, prompts.Budget{
		ContextLength: c.model.ContextLength(),
		CountTokens:   c.model.CountTokens,
	})

	raw, err := c.model.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		if isContextOverflow(err) {
			return "", errors.Wrap(ErrContextOverflow, err.Error())
		}
		return "", errors.Wrap(ErrModelUnavailable, err.Error())
	}
	return NormalizeCategory(raw), nil
}

// Backends signal overflow through error text, not typed errors.
func isContextOverflow(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context") || strings.Contains(msg, "token")
}

// NormalizeCategory strips the markdown noise models wrap short answers in:
// surrounding whitespace, emphasis asterisks, and code fences. The category
// is otherwise used verbatim.
func NormalizeCategory(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		if i := strings.LastIndexByte(s, '\n'); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*")
	return strings.TrimSpace(s)
}
