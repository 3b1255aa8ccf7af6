// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚦 EntryStatus is the overall outcome recorded for a run
type EntryStatus string

const (
	EntrySuccess EntryStatus = "success"
	EntryWarning EntryStatus = "warning"
	EntryError   EntryStatus = "error"
)

// 📒 Entry is one record in the run log
type Entry struct {
	Tool           string        `json:"tool"`
	Operation      string        `json:"operation"`
	Status         EntryStatus   `json:"status"`
	Details        string        `json:"details"`
	Duration       time.Duration `json:"duration"`
	FilesProcessed int           `json:"files_processed"`
	ErrorMessage   string        `json:"error_message,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}

// 📥 Collector receives run log entries. It is passed to whoever runs
// batches; there is no process wide instance.
type Collector interface {
	Add(ctx context.Context, e Entry)
}

// 🗃️ MemoryCollector keeps entries in memory
type MemoryCollector struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

var _ Collector = (*MemoryCollector)(nil)

// 🏭 NewMemoryCollector creates an empty collector
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{now: time.Now}
}

// Add implements Collector. A zero Timestamp is set to the current time.
func (c *MemoryCollector) Add(ctx context.Context, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e.Timestamp.IsZero() {
		e.Timestamp = c.now()
	}
	c.entries = append(c.entries, e)

	zerolog.Ctx(ctx).Debug().
		Str("tool", e.Tool).
		Str("operation", e.Operation).
		Str("status", string(e.Status)).
		Int("files_processed", e.FilesProcessed).
		Msg("run log entry added")
}

// Entries returns a copy of every entry in insertion order
func (c *MemoryCollector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Filter returns a copy of the entries with status s; empty s returns all of them
func (c *MemoryCollector) Filter(s EntryStatus) []Entry {
	if s == "" {
		return c.Entries()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Entry
	for _, e := range c.entries {
		if e.Status == s {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every entry
func (c *MemoryCollector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// LogCSVHeader is the first row written by WriteEntriesCSV
var LogCSVHeader = []string{"timestamp", "tool", "operation", "status", "details", "duration_ms", "files_processed", "error_message"}

// 📤 WriteEntriesCSV exports run log entries
func WriteEntriesCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(LogCSVHeader); err != nil {
		return errors.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Tool,
			e.Operation,
			string(e.Status),
			e.Details,
			strconv.FormatInt(e.Duration.Milliseconds(), 10),
			strconv.Itoa(e.FilesProcessed),
			e.ErrorMessage,
		}
		if err := cw.Write(row); err != nil {
			return errors.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Errorf("flushing csv: %w", err)
	}
	return nil
}

// 🔇 NopCollector discards entries
type NopCollector struct{}

func (NopCollector) Add(context.Context, Entry) {}
