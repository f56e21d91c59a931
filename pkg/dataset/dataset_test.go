package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Sample(t *testing.T) {
	ds := Load(filepath.Join("..", "..", "data", "sample_dataset.json"), logging.NewNop())
	require.Equal(t, 10, ds.Len())

	engineering := 0
	for _, rec := range ds.Records {
		if dept, _ := rec["department"].AsString(); dept == "Engineering" {
			engineering++
		}
	}
	assert.Equal(t, 3, engineering)

	total, ok := ds.Metadata["total_records"].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 10.0, total)
}

func TestLoad_FallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{not json"), 0o600))
	notObjects := filepath.Join(dir, "scalars.json")
	require.NoError(t, os.WriteFile(notObjects, []byte(`{"records": [1, 2]}`), 0o600))

	for _, path := range []string{filepath.Join(dir, "missing.json"), broken, notObjects} {
		ds := Load(path, logging.NewNop())
		assert.Equal(t, 0, ds.Len(), path)
		total, _ := ds.Metadata["total_records"].AsNumber()
		assert.Equal(t, 0.0, total)
	}
}

func TestParse_FillsTotal(t *testing.T) {
	ds, err := Parse([]byte(`{"records": [{"a": 1}, {"a": 2}]}`))
	require.NoError(t, err)
	total, _ := ds.Metadata["total_records"].AsNumber()
	assert.Equal(t, 2.0, total)
}
