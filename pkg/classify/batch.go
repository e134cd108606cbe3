package classify

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/dataset"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/signature"
)

// DefaultDelay paces consecutive backend calls. A plain fixed delay is
// enough for the rate limits involved.
const DefaultDelay = 500 * time.Millisecond

// Batch runs the per-message pipeline (extract body, strip signature,
// classify) over fetched messages, strictly in order so the review UI shows
// messages in fetch order. Every backend failure degrades that single
// message to Uncategorized; only context cancellation aborts the batch.
type Batch struct {
	classifier *Classifier
	logger     *log.Logger
	delay      time.Duration
}

func NewBatch(logger *log.Logger, classifier *Classifier, delay time.Duration) *Batch {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Batch{classifier: classifier, logger: logger, delay: delay}
}

// Run classifies messages into records, pacing calls with a fixed delay.
func (b *Batch) Run(ctx context.Context, messages []mailbox.RawMessage) ([]dataset.Record, error) {
	records := make([]dataset.Record, 0, len(messages))
	for i, msg := range messages {
		if i > 0 {
			select {
			case <-time.After(b.delay):
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), "batch canceled")
			}
		}

		b.logger.Info("Processing", "subject", truncateSubject(msg.Subject))

		body := mailbox.ExtractBody(msg.Body)
		content, _ := signature.Split(body)

		category, err := b.classifier.Classify(ctx, msg.Subject, msg.Snippet, content)
		if err != nil {
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, errors.Wrap(ctx.Err(), "batch canceled")
			}
			// Coercion policy: any per-message failure becomes the
			// sentinel and the batch continues.
			if errors.Is(err, ErrContextOverflow) {
				b.logger.Warn("Email too long for model context", "subject", truncateSubject(msg.Subject))
			} else {
				b.logger.Error("Classification failed", "subject", truncateSubject(msg.Subject), "error", err)
			}
			category = Uncategorized
		}

		records = append(records, dataset.NewRecord(msg, content, category))
	}
	return records, nil
}

func truncateSubject(s string) string {
	if len(s) <= 80 {
		return s
	}
	cut := 80
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
