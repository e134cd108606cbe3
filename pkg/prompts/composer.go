// Package prompts builds categorization prompts from a template with
// {subject}, {snippet} and {body} placeholders and keeps them inside the
// active model's context budget.
package prompts

import (
	_ "embed"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

//go:embed templates/categorize_email.md
var defaultTemplate string

// ErrTemplate reports a template that cannot produce valid prompts. It is
// fatal to the whole batch, so callers surface it immediately.
var ErrTemplate = errors.New("prompt template missing required placeholder")

// TruncationMarker is appended to a body cut for length so the model (and
// anyone reading the corpus) can see the text was shortened.
const TruncationMarker = "\n[... truncated for length ...]"

const (
	// Tokens reserved for the response and system content.
	responseReserveTokens = 500
	// Share of the remaining budget allotted to the body on the
	// estimate path.
	bodyBudgetShare = 0.4
	// Fallback ratio when the backend exposes no tokenizer.
	defaultCharsPerToken = 4
)

var placeholders = []string{"{subject}", "{snippet}", "{body}"}

// Budget carries what the active backend knows about its own limits.
// ContextLength of zero means unknown; CountTokens may be nil when the
// backend has no exact tokenizer.
type Budget struct {
	ContextLength int
	CountTokens   func(text string) (int, bool)
}

// Composer renders one template. Construct once per run; the template is
// validated up front since a malformed template would corrupt every record.
type Composer struct {
	template string
}

// ValidateTemplate checks that all required placeholders are present,
// returning ErrTemplate for the first one missing.
func ValidateTemplate(template string) error {
	for _, ph := range placeholders {
		if !strings.Contains(template, ph) {
			return errors.Wrapf(ErrTemplate, "placeholder %s", ph)
		}
	}
	return nil
}

// NewComposer validates that the template carries all required placeholders.
func NewComposer(template string) (*Composer, error) {
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	return &Composer{template: template}, nil
}

// NewDefaultComposer uses the embedded categorization template.
func NewDefaultComposer() (*Composer, error) {
	return NewComposer(defaultTemplate)
}

// LoadComposer reads the template from path, falling back to the embedded
// default when the file does not exist.
func LoadComposer(path string) (*Composer, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefaultComposer()
		}
		return nil, errors.Wrapf(err, "read prompt template %s", path)
	}
	return NewComposer(string(b))
}

func (c *Composer) render(subject, snippet, body string) string {
	return strings.NewReplacer(
		"{subject}", subject,
		"{snippet}", snippet,
		"{body}", body,
	).Replace(c.template)
}

// Compose renders the prompt, truncating the body when the rendered result
// would not fit the budget. With an exact tokenizer the body is shrunk
// iteratively until the prompt fits; otherwise a single shrink from the
// default chars-per-token estimate is applied.
func (c *Composer) Compose(subject, snippet, body string, budget Budget) string {
	prompt := c.render(subject, snippet, body)
	if budget.ContextLength <= 0 {
		return prompt
	}

	available := budget.ContextLength - responseReserveTokens
	if available <= 0 {
		available = budget.ContextLength
	}

	if budget.CountTokens != nil {
		if count, ok := budget.CountTokens(prompt); ok {
			return c.shrinkExact(subject, snippet, body, prompt, count, available, budget.CountTokens)
		}
	}

	if len(prompt)/defaultCharsPerToken <= available {
		return prompt
	}
	maxBodyChars := int(float64(available) * bodyBudgetShare * defaultCharsPerToken)
	return c.render(subject, snippet, truncateBody(body, maxBodyChars))
}

func (c *Composer) shrinkExact(subject, snippet, body, prompt string, count, available int, countTokens func(string) (int, bool)) string {
	maxBodyChars := len(body)
	for count > available && maxBodyChars > 0 {
		// Ratio observed on the current attempt, not a fixed constant.
		charsPerToken := float64(len(prompt)) / float64(count)
		cut := int(float64(count-available)*charsPerToken) + len(TruncationMarker)
		maxBodyChars -= cut
		if maxBodyChars < 0 {
			maxBodyChars = 0
		}
		prompt = c.render(subject, snippet, truncateBody(body, maxBodyChars))
		next, ok := countTokens(prompt)
		if !ok {
			break
		}
		count = next
	}
	return prompt
}

func truncateBody(body string, maxChars int) string {
	if len(body) <= maxChars {
		return body
	}
	if maxChars <= 0 {
		return TruncationMarker
	}
	// Back the cut off to a rune boundary so the prompt stays valid UTF-8.
	for maxChars > 0 && !utf8.RuneStart(body[maxChars]) {
		maxChars--
	}
	return body[:maxChars] + TruncationMarker
}
