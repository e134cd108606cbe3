package organizer

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/classify"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/dataset"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/signature"
)

// Builder grows the verified corpus one message at a time: it shows each
// fetched message with the model's prediction and lets the operator confirm,
// correct, or skip it on the terminal.
type Builder struct {
	logger     *log.Logger
	console    *Console
	mbx        mailbox.Mailbox
	classifier *classify.Classifier
	verified   *dataset.Store
}

func NewBuilder(logger *log.Logger, console *Console, mbx mailbox.Mailbox, classifier *classify.Classifier, verified *dataset.Store) *Builder {
	return &Builder{
		logger:     logger,
		console:    console,
		mbx:        mbx,
		classifier: classifier,
		verified:   verified,
	}
}

// Run fetches up to maxMessages matching query, skips anything already in
// the verified corpus, and walks the rest interactively. Confirmed and
// corrected entries are appended and saved in one atomic write at the end.
func (b *Builder) Run(ctx context.Context, query string, maxMessages int) error {
	b.console.Printf("--- Dataset Builder ---\n")

	corpus, err := b.verified.Load()
	if err != nil {
		return err
	}
	existing := dataset.IDSet(corpus)

	messages, err := mailbox.FetchMessages(ctx, b.mbx, b.logger, query, maxMessages, existing)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		b.console.Printf("No new messages to review.\n")
		return nil
	}

	added := 0
	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, _ := signature.Split(mailbox.ExtractBody(msg.Body))
		b.printMessage(msg, content)

		predicted, err := b.classifier.Classify(ctx, msg.Subject, msg.Snippet, content)
		if err != nil {
			b.logger.Warn("Classification failed, predicting nothing", "id", msg.ID, "error", err)
			predicted = classify.Uncategorized
		}
		b.console.Printf("Model prediction: %s\n", predicted)

		category, keep, more := b.review(predicted)
		if keep {
			rec := dataset.NewRecord(msg, content, category)
			rec.Metadata.ModelPrediction = predicted
			rec.Metadata.ThumbsUp = predicted == category
			corpus = append(corpus, rec)
			added++
		}
		if !more {
			b.console.Printf("\nInput closed, stopping review.\n")
			break
		}
	}

	if added == 0 {
		b.console.Printf("\nNo new entries added.\n")
		return nil
	}
	if err := b.verified.Save(corpus); err != nil {
		return err
	}
	b.console.Printf("\nSaved %d new verified entries to %s\n", added, b.verified.Path())
	return nil
}

// review loops until the operator answers y, n, or s. Corrections that
// normalize to empty are treated as a skip rather than stored blank. A
// closed input skips the message and reports more=false so the caller
// stops reviewing instead of re-prompting a reader that can never answer.
func (b *Builder) review(predicted string) (category string, keep, more bool) {
	for {
		reply, ok := b.console.Ask("Is this correct? (y/n/s to skip): ", "")
		if !ok {
			return "", false, false
		}
		switch strings.ToLower(reply) {
		case "y":
			return predicted, true, true
		case "n":
			correction, ok := b.console.Ask("Enter correct category: ", "")
			if !ok {
				return "", false, false
			}
			corrected := classify.NormalizeCategory(correction)
			if corrected == "" {
				return "", false, true
			}
			return corrected, true, true
		case "s":
			return "", false, true
		}
	}
}

func (b *Builder) printMessage(msg mailbox.RawMessage, content string) {
	preview := truncateDisplay(content, 500)
	b.console.Printf("\n%s\n", divider)
	b.console.Printf("From: %s\n", msg.Sender)
	b.console.Printf("To: %s\n", msg.Recipient)
	b.console.Printf("Subject: %s\n", msg.Subject)
	b.console.Printf("Body:\n%s\n", preview)
	b.console.Printf("%s\n", divider)
}
