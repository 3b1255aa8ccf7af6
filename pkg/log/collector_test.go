package log

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCollector(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewMemoryCollector()
	c.now = func() time.Time { return fixed }

	ctx := context.Background()
	c.Add(ctx, Entry{Tool: "rename", Operation: "commit", Status: EntrySuccess, FilesProcessed: 3})
	c.Add(ctx, Entry{Tool: "replace", Operation: "preview", Status: EntryWarning, ErrorMessage: "1 item failed"})
	c.Add(ctx, Entry{Tool: "bom", Operation: "commit", Status: EntryError, Timestamp: fixed.Add(time.Hour)})

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, fixed, entries[0].Timestamp, "zero timestamps are filled in")
	assert.Equal(t, fixed.Add(time.Hour), entries[2].Timestamp, "given timestamps are kept")

	// copies do not leak
	entries[0].Tool = "changed"
	assert.Equal(t, "rename", c.Entries()[0].Tool)

	warnings := c.Filter(EntryWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, "replace", warnings[0].Tool)
	assert.Len(t, c.Filter(""), 3)
	assert.Empty(t, c.Filter("unknown"))

	c.Clear()
	assert.Empty(t, c.Entries())
}

func TestMemoryCollector_Concurrent(t *testing.T) {
	c := NewMemoryCollector()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(context.Background(), Entry{Tool: "rename", Status: EntrySuccess})
		}()
	}
	wg.Wait()

	assert.Len(t, c.Entries(), 20)
}

func TestWriteEntriesCSV(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	var buf bytes.Buffer

	err := WriteEntriesCSV(&buf, []Entry{
		{
			Tool:           "replace",
			Operation:      "commit",
			Status:         EntryWarning,
			Details:        "search=foo, replace=bar",
			Duration:       1500 * time.Millisecond,
			FilesProcessed: 4,
			ErrorMessage:   "1 item failed",
			Timestamp:      ts,
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,tool,operation,status,details,duration_ms,files_processed,error_message", lines[0])
	assert.Equal(t, `2025-01-02T03:04:05Z,replace,commit,warning,"search=foo, replace=bar",1500,4,1 item failed`, lines[1])
}
