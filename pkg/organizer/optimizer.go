package organizer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/ai"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/prompts"
)

const suggestCategoriesPrompt = `I have a list of %d emails from a user's inbox.
Analyze them and suggest a set of 5-8 distinct, mutually exclusive categories that would best organize this specific inbox.

The current categories are: Work, Personal, Promotions, Social, Updates, Spam.

If the current categories are good, say so. If they can be improved, please suggest the new list.

**Important:** Group entire topics together rather than splitting by status.
(e.g., 'Order Confirmation', 'Shipping Update', and 'Review Request' should all go into one 'Shopping' category).

Provide the output in this format:

### Analysis
(Brief analysis of the email types found)

### Suggested Categories
- Category 1: Description
- Category 2: Description
...

Here are the emails:
%s`

const generatePromptPrompt = `You are an expert prompt engineer.
Based on the following analysis and suggested categories for an email inbox, create the final system prompt that will be used to categorize emails.

The output must be ONLY the content of the prompt file, with no markdown code blocks or extra text.

The prompt should:
- Instruct the LLM to categorize emails into the suggested categories
- Include clear descriptions of each category
- Use a format like: "You are an email categorization assistant. Categorize the following email into one of these categories: ..."
- End with these exact lines, placeholders included:

Email Subject: {subject}
Email Snippet: {snippet}
Email Body: {body}

Return ONLY the category name.

---
Input Analysis:
%s`

// Optimizer rebuilds the categorization prompt around what the inbox
// actually contains. It samples recent messages, asks the model for a
// category set that fits them, then has the model write a fresh prompt
// file using those categories.
type Optimizer struct {
	logger     *log.Logger
	console    *Console
	mbx        mailbox.Mailbox
	model      ai.Model
	promptPath string
}

func NewOptimizer(logger *log.Logger, console *Console, mbx mailbox.Mailbox, model ai.Model, promptPath string) *Optimizer {
	return &Optimizer{
		logger:     logger,
		console:    console,
		mbx:        mbx,
		model:      model,
		promptPath: promptPath,
	}
}

// Run samples up to maxMessages from query and writes the regenerated
// prompt to the configured path. The generated prompt is rejected if the
// model dropped any of the placeholders the composer needs.
func (o *Optimizer) Run(ctx context.Context, query string, maxMessages int) error {
	o.console.Printf("--- Category Optimizer ---\n")

	messages, err := mailbox.FetchMessages(ctx, o.mbx, o.logger, query, maxMessages, nil)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		o.console.Printf("No messages found.\n")
		return nil
	}

	o.logger.Info("Analyzing inbox", "messages", len(messages))
	analysis, err := o.model.Generate(ctx, "", fmt.Sprintf(suggestCategoriesPrompt, len(messages), summarize(messages)))
	if err != nil {
		return errors.Wrap(err, "suggest categories")
	}
	o.console.Printf("\n%s\n\n%s\n\n%s\n\n", divider, analysis, divider)

	o.logger.Info("Generating optimized prompt")
	generated, err := o.model.Generate(ctx, "", fmt.Sprintf(generatePromptPrompt, analysis))
	if err != nil {
		return errors.Wrap(err, "generate prompt")
	}

	content := stripFences(generated)
	if err := prompts.ValidateTemplate(content); err != nil {
		return errors.Wrap(err, "model dropped required placeholders, prompt not saved")
	}

	if dir := filepath.Dir(o.promptPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create prompt directory %s", dir)
		}
	}
	if err := os.WriteFile(o.promptPath, []byte(content+"\n"), 0o644); err != nil {
		return errors.Wrapf(err, "write prompt %s", o.promptPath)
	}
	o.console.Printf("Optimized prompt saved to %s\n", o.promptPath)
	return nil
}

// summarize renders one numbered line per message for the analysis prompt.
func summarize(messages []mailbox.RawMessage) string {
	var sb strings.Builder
	for i, msg := range messages {
		fmt.Fprintf(&sb, "%d. Subject: %s | Sender: %s | Snippet: %s\n", i+1, msg.Subject, msg.Sender, msg.Snippet)
	}
	return sb.String()
}

// stripFences removes a surrounding markdown code fence if the model wrapped
// its output in one despite instructions.
func stripFences(text string) string {
	content := strings.TrimSpace(text)
	if strings.HasPrefix(content, "```") {
		if _, rest, ok := strings.Cut(content, "\n"); ok {
			content = rest
		}
	}
	if strings.HasSuffix(content, "```") {
		if idx := strings.LastIndex(content, "\n"); idx >= 0 {
			content = content[:idx]
		}
	}
	return strings.TrimSpace(content)
}
