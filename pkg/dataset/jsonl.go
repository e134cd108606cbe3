package dataset

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ExportJSONL writes the training pairs of records as one JSON object per
// line, the shape fine-tuning toolchains expect.
func ExportJSONL(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close() //nolint:errcheck

	w := bufio.NewWriter(file)
	for _, rec := range records {
		line, err := json.Marshal(rec.TrainingData)
		if err != nil {
			return errors.Wrap(err, "marshal training pair")
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return nil
}
