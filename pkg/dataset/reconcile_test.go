package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, category string) Record {
	return Record{
		TrainingData: TrainingData{Input: "Subject: s\nBody: b", Output: category},
		Metadata:     Metadata{EmailID: id, Subject: "s", ModelPrediction: category, ThumbsUp: true},
	}
}

func TestReconcile_MergesAndSkipsDuplicates(t *testing.T) {
	verified := []Record{rec("A", "Work")}
	pending := []Record{rec("A", "Personal"), rec("B", "Promotions")}

	updated, added, duplicates := Reconcile(pending, verified)

	assert.Equal(t, 1, added)
	assert.Equal(t, 1, duplicates)
	require.Len(t, updated, 2)
	// Existing corpus order and content untouched; the duplicate's new
	// category does not overwrite the verified entry.
	assert.Equal(t, "A", updated[0].Metadata.EmailID)
	assert.Equal(t, "Work", updated[0].TrainingData.Output)
	assert.Equal(t, "B", updated[1].Metadata.EmailID)
}

func TestReconcile_Idempotent(t *testing.T) {
	verified := []Record{rec("A", "Work")}
	pending := []Record{rec("B", "Social"), rec("C", "Updates")}

	updated, added, _ := Reconcile(pending, verified)
	assert.Equal(t, 2, added)

	again, added2, dupes2 := Reconcile(pending, updated)
	assert.Equal(t, 0, added2)
	assert.Equal(t, len(pending), dupes2)
	assert.Equal(t, updated, again)
}

func TestReconcile_NeverShrinksAndStaysUnique(t *testing.T) {
	verified := []Record{rec("A", "Work"), rec("B", "Social")}
	pending := []Record{rec("B", "Work"), rec("C", "Spam"), rec("C", "Spam"), rec("D", "Work")}

	updated, added, duplicates := Reconcile(pending, verified)

	assert.Equal(t, len(verified)+added, len(updated))
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, duplicates)

	seen := map[string]bool{}
	for _, r := range updated {
		assert.False(t, seen[r.Metadata.EmailID], "duplicate id %s", r.Metadata.EmailID)
		seen[r.Metadata.EmailID] = true
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	updated, added, duplicates := Reconcile(nil, nil)
	assert.Empty(t, updated)
	assert.Zero(t, added)
	assert.Zero(t, duplicates)

	updated, added, duplicates = Reconcile(nil, []Record{rec("A", "Work")})
	assert.Len(t, updated, 1)
	assert.Zero(t, added)
	assert.Zero(t, duplicates)
}

func TestIDSet(t *testing.T) {
	ids := IDSet([]Record{rec("A", "Work"), rec("B", "Social"), rec("A", "Work")})
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, "A")
	assert.Contains(t, ids, "B")
}

func TestEffectiveCategory(t *testing.T) {
	r := rec("A", "Work")
	assert.Equal(t, "Work", r.EffectiveCategory())

	r.TrainingData.Output = "Personal"
	assert.Equal(t, "Personal", r.EffectiveCategory())

	r.TrainingData.Output = ""
	assert.Equal(t, "Work", r.EffectiveCategory())
}
