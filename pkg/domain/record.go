package domain

import "github.com/aretw0/switchboard/pkg/value"

// Record is one row of the tabular domain: an open mapping of field name to scalar.
type Record map[string]value.Value

// Dataset is an ordered sequence of records plus free-form metadata.
// It is loaded once and never written back.
type Dataset struct {
	Records  []Record
	Metadata map[string]value.Value
}

// EmptyDataset is what a failed or absent load produces.
func EmptyDataset() Dataset {
	return Dataset{
		Records:  []Record{},
		Metadata: map[string]value.Value{"total_records": value.Int(0)},
	}
}

// Len is the number of records.
func (d Dataset) Len() int { return len(d.Records) }
