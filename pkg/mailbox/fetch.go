package mailbox

import (
	"context"

	"github.com/charmbracelet/log"
)

// FetchMessages lists message ids matching query, skips ids in exclude
// (already-verified messages), and fetches full messages until maxResults
// are collected or the listing is exhausted. Pages are over-requested so
// exclusions do not starve the batch.
func FetchMessages(ctx context.Context, mbx Mailbox, logger *log.Logger, query string, maxResults int, exclude map[string]struct{}) ([]RawMessage, error) {
	if exclude == nil {
		exclude = map[string]struct{}{}
	}

	batchSize := int64(maxResults * 2)
	if batchSize < 50 {
		batchSize = 50
	}

	var ids []string
	pageToken := ""
	for len(ids) < maxResults {
		page, next, err := mbx.ListMessageIDs(ctx, query, batchSize, pageToken)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, id := range page {
			if _, seen := exclude[id]; seen {
				continue
			}
			ids = append(ids, id)
			if len(ids) >= maxResults {
				break
			}
		}
		pageToken = next
		if pageToken == "" {
			break
		}
	}

	if len(ids) == 0 {
		logger.Info("No new messages found", "query", query, "excluded", len(exclude))
		return nil, nil
	}

	messages := make([]RawMessage, 0, len(ids))
	for _, id := range ids {
		msg, err := mbx.GetMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	logger.Info("Fetched messages", "count", len(messages), "query", query)
	return messages, nil
}
