// Package organizer drives one run of the pipeline: fetch, classify,
// pending review, reconcile into the verified corpus, and label
// application. The review UI itself is external; this package only reads
// and rewrites the pending store around it.
package organizer

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/classify"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/dataset"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/labels"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
)

type Organizer struct {
	logger  *log.Logger
	console *Console

	mbx     mailbox.Mailbox
	batch   *classify.Batch
	applier *labels.Applier

	pending  *dataset.Store
	verified *dataset.Store

	state State
}

func New(logger *log.Logger, console *Console, mbx mailbox.Mailbox, batch *classify.Batch, applier *labels.Applier, pending, verified *dataset.Store) *Organizer {
	return &Organizer{
		logger:   logger,
		console:  console,
		mbx:      mbx,
		batch:    batch,
		applier:  applier,
		pending:  pending,
		verified: verified,
		state:    StateIdle,
	}
}

func (o *Organizer) advance(next State) {
	if !o.state.canAdvance(next) {
		// Transitions are driven by Run's fixed sequence; a bad one is
		// a programming error worth surfacing loudly in logs.
		o.logger.Error("Illegal state transition", "from", o.state, "to", next)
	}
	o.state = next
	o.logger.Debug("State", "state", o.state)
}

// Run executes a full organization pass. Aborting at any prompt before
// reconciliation leaves the pending file as a checkpoint and the mailbox
// untouched.
func (o *Organizer) Run(ctx context.Context, query string, maxMessages int) error {
	o.logger.Info("Starting run", "run_id", uuid.NewString(), "query", query, "max", maxMessages)

	if o.pending.Exists() {
		o.console.Printf("Found existing pending file: %s\n", o.pending.Path())
		if o.console.Confirm("Resume from existing data (n re-analyzes from scratch)?", true) {
			records, err := o.loadPendingNormalized()
			if err != nil {
				return err
			}
			o.state = StatePendingReview
			o.printPreview(records)
			return o.reviewAndApply(ctx)
		}
	}

	exclude, err := o.verifiedIDs()
	if err != nil {
		return err
	}

	messages, err := mailbox.FetchMessages(ctx, o.mbx, o.logger, query, maxMessages, exclude)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		o.console.Printf("No new messages to organize.\n")
		return nil
	}
	o.advance(StateFetched)

	records, err := o.batch.Run(ctx, messages)
	if err != nil {
		return err
	}
	o.advance(StateClassified)

	if err := o.pending.Save(records); err != nil {
		return err
	}
	o.advance(StatePendingReview)
	o.logger.Info("Saved pending batch", "count", len(records), "path", o.pending.Path())

	o.printPreview(records)
	return o.reviewAndApply(ctx)
}

// reviewAndApply owns the PENDING_REVIEW → RECONCILED → LABELS_APPLIED
// tail of a run. The external reviewer may rewrite the pending file any
// number of times before the operator confirms.
func (o *Organizer) reviewAndApply(ctx context.Context) error {
	o.console.Printf("\nReview the pending file with the review UI, then come back here.\n")
	for {
		reply, ok := o.console.Ask("Press Enter when review is done (r to show the table again): ", "")
		if !ok || strings.ToLower(reply) != "r" {
			break
		}
		records, err := o.loadPendingNormalized()
		if err != nil {
			return err
		}
		o.advance(StatePendingReview)
		o.printPreview(records)
	}

	if !o.console.Confirm("Save corrected data to the verified corpus?", true) {
		o.console.Printf("Operation cancelled. Your corrections remain in %s\n", o.pending.Path())
		return nil
	}

	corrected, err := o.loadPendingNormalized()
	if err != nil {
		return err
	}

	added, duplicates, err := o.reconcile(corrected)
	if err != nil {
		return err
	}
	o.advance(StateReconciled)
	o.console.Printf("Saved to verified corpus: %d new, %d duplicates skipped\n", added, duplicates)

	if !o.console.Confirm("Apply the labels to the mailbox now?", false) {
		o.console.Printf("Labels not applied. Your verified data is saved in %s\n", o.verified.Path())
		return nil
	}

	applied, skipped, err := o.applier.Apply(ctx, corrected)
	if err != nil {
		return err
	}
	o.advance(StateLabelsApplied)
	o.console.Printf("Organization complete: %d labeled, %d skipped.\n", applied, skipped)
	o.console.Printf("You can delete %s if you're satisfied with the results.\n", o.pending.Path())
	return nil
}

// reconcile merges reviewed records into the verified corpus and persists
// the result atomically.
func (o *Organizer) reconcile(corrected []dataset.Record) (added, duplicates int, err error) {
	verified, err := o.verified.Load()
	if err != nil {
		return 0, 0, err
	}
	updated, added, duplicates := dataset.Reconcile(corrected, verified)
	if err := o.verified.Save(updated); err != nil {
		return 0, 0, err
	}
	o.logger.Info("Reconciled", "added", added, "duplicates", duplicates, "total", len(updated))
	return added, duplicates, nil
}

// verifiedIDs feeds the fetch exclusion so verified messages are never
// re-fetched for classification.
func (o *Organizer) verifiedIDs() (map[string]struct{}, error) {
	verified, err := o.verified.Load()
	if err != nil {
		return nil, err
	}
	ids := dataset.IDSet(verified)
	if len(ids) > 0 {
		o.logger.Info("Loaded verified ids to skip", "count", len(ids))
	}
	return ids, nil
}

// loadPendingNormalized re-reads the pending store and cleans categories
// the reviewer (or the model) may have left with markdown emphasis.
func (o *Organizer) loadPendingNormalized() ([]dataset.Record, error) {
	records, err := o.pending.Load()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Errorf("pending file %s is empty", o.pending.Path())
	}
	for i := range records {
		records[i].TrainingData.Output = classify.NormalizeCategory(records[i].TrainingData.Output)
	}
	return records, nil
}

func (o *Organizer) printPreview(records []dataset.Record) {
	o.console.Printf("\n%-50s | %s\n", "SUBJECT", "CATEGORY")
	o.console.Printf("%s\n", divider)
	for _, rec := range records {
		o.console.Printf("%-50s | %s\n", truncateDisplay(rec.Metadata.Subject, 50), rec.EffectiveCategory())
	}
	o.console.Printf("%s\n", divider)
}

// truncateDisplay shortens s to at most max bytes without cutting a UTF-8
// rune in half.
func truncateDisplay(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}

const divider = "--------------------------------------------------------------------------------"
