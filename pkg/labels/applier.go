// Package labels maps categories to mailbox label ids and applies them to
// the classified messages.
package labels

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/classify"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/dataset"
	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
)

// Applier resolves categories to label ids with a per-run cache: one
// lookup or create per distinct category, no matter how many records share
// it. The cache is never persisted; it is rebuilt from the mailbox's label
// list at the start of every run.
type Applier struct {
	mbx    mailbox.Mailbox
	logger *log.Logger

	cache  map[string]string
	listed []mailbox.Label
}

func NewApplier(logger *log.Logger, mbx mailbox.Mailbox) *Applier {
	return &Applier{mbx: mbx, logger: logger}
}

// Apply labels every record with its effective category. Records carrying
// the Uncategorized sentinel are skipped, as are records whose label cannot
// be resolved or applied; those are reported and do not abort the batch.
// Only the initial label listing is fatal.
func (a *Applier) Apply(ctx context.Context, records []dataset.Record) (applied, skipped int, err error) {
	listed, err := a.mbx.ListLabels(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "list mailbox labels")
	}
	a.listed = listed
	a.cache = make(map[string]string)

	for _, rec := range records {
		category := rec.EffectiveCategory()
		if category == "" || category == classify.Uncategorized {
			skipped++
			continue
		}

		labelID, err := a.resolve(ctx, category)
		if err != nil {
			a.logger.Error("Could not resolve label", "category", category, "subject", rec.Metadata.Subject, "error", err)
			skipped++
			continue
		}

		if err := a.mbx.ApplyLabel(ctx, rec.Metadata.EmailID, labelID); err != nil {
			a.logger.Error("Could not apply label", "category", category, "subject", rec.Metadata.Subject, "error", err)
			skipped++
			continue
		}
		a.logger.Info("Applied label", "category", category, "subject", rec.Metadata.Subject)
		applied++
	}
	return applied, skipped, nil
}

// resolve returns the label id for a category, creating the label when the
// mailbox has no case-insensitive name match. A create that loses a race to
// another creator falls back to a fresh lookup.
func (a *Applier) resolve(ctx context.Context, category string) (string, error) {
	if id, ok := a.cache[category]; ok {
		return id, nil
	}

	if id := findLabel(a.listed, category); id != "" {
		a.cache[category] = id
		return id, nil
	}

	id, err := a.mbx.CreateLabel(ctx, category)
	if errors.Is(err, mailbox.ErrLabelExists) {
		listed, listErr := a.mbx.ListLabels(ctx)
		if listErr != nil {
			return "", errors.Wrap(listErr, "re-list labels after create conflict")
		}
		a.listed = listed
		if id := findLabel(a.listed, category); id != "" {
			a.cache[category] = id
			return id, nil
		}
		return "", errors.Errorf("label %q reported as existing but not found", category)
	}
	if err != nil {
		return "", err
	}

	a.cache[category] = id
	return id, nil
}

func findLabel(labels []mailbox.Label, name string) string {
	for _, l := range labels {
		if strings.EqualFold(l.Name, name) {
			return l.ID
		}
	}
	return ""
}
