package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}, {"3", ""}},
	})
	require.NoError(t, err)

	records := readCSVFile(t, filepath.Join(dir, "out.csv"))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b"}, records[0])
	assert.Equal(t, []string{"1", "2"}, records[1])
	assert.Equal(t, []string{"3", ""}, records[2])
}

func TestWriteCSVBOM(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteCSV("bom.csv", WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"x"}},
		BOMPrefix: true,
	}))

	data, err := os.ReadFile(filepath.Join(dir, "bom.csv"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteCSV(filepath.Join("nested", "deep", "out.csv"), WriteOptions{
		Headers: []string{"a"},
	}))

	_, err := os.Stat(filepath.Join(dir, "nested", "deep", "out.csv"))
	assert.NoError(t, err)
}

func TestWriteCSVAbsolutePath(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "abs.csv")
	w := NewCSVWriter(t.TempDir())

	require.NoError(t, w.WriteCSV(outside, WriteOptions{Headers: []string{"a"}}))

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}

func TestWriteCSVOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}, {"2"}},
	}))
	require.NoError(t, w.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"9"}},
	}))

	records := readCSVFile(t, filepath.Join(dir, "out.csv"))
	require.Len(t, records, 2, "a rerun replaces the file, never appends")
	assert.Equal(t, []string{"9"}, records[1])
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary.json")

	require.NoError(t, WriteJSON(path, map[string]int{"rows": 77}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rows": 77`)
}
