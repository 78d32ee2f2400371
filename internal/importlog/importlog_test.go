package importlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRead(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

	err := Append(dir, []Entry{
		{Timestamp: ts, Statement: "camt053-march.xml", Event: EventImported, Details: "2 transaction(s), 0 duplicate(s)"},
		{Timestamp: ts, Statement: "camt053-march.xml", Event: EventDuplicate, Reference: "E2E-1", Details: "already imported in PE-0001"},
	})
	require.NoError(t, err)

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, EventImported, entries[0].Event)
	assert.True(t, entries[0].Timestamp.Equal(ts))
	assert.Equal(t, "E2E-1", entries[1].Reference)
	assert.Equal(t, "already imported in PE-0001", entries[1].Details)
}

func TestAppend_WritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	ts := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, Append(dir, []Entry{{Timestamp: ts, Statement: "a.xml", Event: EventImported}}))
	require.NoError(t, Append(dir, []Entry{{Timestamp: ts, Statement: "b.xml", Event: EventImported}}))

	data, err := os.ReadFile(filepath.Join(dir, "import-log.csv"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), Header))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b.xml", entries[1].Statement)
}

func TestRead_MissingFile(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Invalid(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "few"})
	require.Error(t, err)

	_, err = UnmarshalEntry([]string{"not-a-time", "a.xml", EventImported, "", ""})
	require.Error(t, err)
}
