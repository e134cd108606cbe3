// Package dataset holds the classification records the organizer produces,
// the pending/verified JSON stores they live in, and the reconciliation
// logic that keeps the verified corpus deduplicated.
package dataset

import (
	"fmt"

	"github.com/chauminhvu/llm-based-gmail-organizer/pkg/mailbox"
)

// TrainingData is the (input, output) pair used for future fine-tuning.
// Output is the human-corrected category; until the reviewer touches it,
// it equals the model prediction.
type TrainingData struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Metadata identifies the source message and preserves the model's original
// prediction alongside the reviewer's verdict.
type Metadata struct {
	EmailID         string `json:"email_id"`
	Subject         string `json:"subject"`
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	Snippet         string `json:"snippet"`
	ModelPrediction string `json:"model_prediction"`
	ThumbsUp        bool   `json:"thumbs_up"`
}

// Record is one classified message. The external reviewer mutates
// TrainingData.Output and Metadata.ThumbsUp in the pending store; everything
// else is read-only after creation.
type Record struct {
	TrainingData TrainingData `json:"training_data"`
	Metadata     Metadata     `json:"metadata"`
}

// NewRecord builds a record for a freshly classified message. The training
// input pairs the subject with the signature-stripped body content.
func NewRecord(msg mailbox.RawMessage, content, category string) Record {
	return Record{
		TrainingData: TrainingData{
			Input:  fmt.Sprintf("Subject: %s\nBody: %s", msg.Subject, content),
			Output: category,
		},
		Metadata: Metadata{
			EmailID:         msg.ID,
			Subject:         msg.Subject,
			Sender:          msg.Sender,
			Recipient:       msg.Recipient,
			Snippet:         msg.Snippet,
			ModelPrediction: category,
			ThumbsUp:        true,
		},
	}
}

// EffectiveCategory is what gets applied to the mailbox: the corrected
// output when present, the model prediction otherwise.
func (r Record) EffectiveCategory() string {
	if r.TrainingData.Output != "" {
		return r.TrainingData.Output
	}
	return r.Metadata.ModelPrediction
}
