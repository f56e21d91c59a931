// Package dataset loads the read-only records served by the tabular domain.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/value"
)

type file struct {
	Records  []domain.Record        `json:"records"`
	Metadata map[string]value.Value `json:"metadata"`
}

// Load reads a dataset file of the form {"records": [...], "metadata": {...}}.
// A missing, unreadable or malformed file yields an empty dataset and a warning;
// it never fails the caller.
func Load(path string, logger *slog.Logger) domain.Dataset {
	ds, err := Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("dataset not found, starting empty", "path", path)
		} else {
			logger.Warn("could not load dataset, starting empty", "path", path, "error", err)
		}
		return domain.EmptyDataset()
	}
	logger.Debug("dataset loaded", "path", path, "records", ds.Len())
	return ds
}

// Read is Load without the fallback.
func Read(path string) (domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, err
	}
	return Parse(data)
}

// Parse decodes a dataset document. Records must be JSON objects.
func Parse(data []byte) (domain.Dataset, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	if f.Records == nil {
		f.Records = []domain.Record{}
	}
	for i, rec := range f.Records {
		if rec == nil {
			return domain.Dataset{}, fmt.Errorf("parse dataset: record %d is not an object", i)
		}
	}
	if f.Metadata == nil {
		f.Metadata = map[string]value.Value{}
	}
	if _, ok := f.Metadata["total_records"]; !ok {
		f.Metadata["total_records"] = value.Int(len(f.Records))
	}
	return domain.Dataset{Records: f.Records, Metadata: f.Metadata}, nil
}
