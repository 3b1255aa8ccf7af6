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

package status

import (
	"strings"
	"time"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
)

// 📊 Status is the outcome of processing one entry
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// 🔀 Mode decides whether a run persists its changes
type Mode string

const (
	ModePreview Mode = "preview"
	ModeCommit  Mode = "commit"
)

// ParseMode parses a mode name; empty means ModePreview
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePreview, nil
	case ModePreview, ModeCommit:
		return m, nil
	default:
		return "", fault.Configf("unknown mode %q", s)
	}
}

// 📄 ItemResult is the outcome for a single entry
type ItemResult struct {
	Name string      `json:"name"`
	Path string      `json:"path"`
	Kind hostfs.Kind `json:"kind"`

	// Original and New describe the value before and after: names for a
	// rename, content excerpts or descriptors for content transforms
	Original string `json:"original"`
	New      string `json:"new"`

	// Count is the match count for text replacement, 1 or 0 otherwise
	Count int `json:"count"`

	Status     Status `json:"status"`
	Message    string `json:"message"`
	BackupPath string `json:"backup_path,omitempty"`

	// Err is the fault behind StatusError
	Err error `json:"-"`
}

// Skipped builds a skipped result
func Skipped(r ItemResult, message string) ItemResult {
	r.Status = StatusSkipped
	r.Message = message
	return r
}

// Failed builds an error result carrying err's message
func Failed(r ItemResult, err error) ItemResult {
	r.Status = StatusError
	r.Err = err
	r.Message = err.Error()
	return r
}

// Succeeded builds a success result
func Succeeded(r ItemResult, message string) ItemResult {
	r.Status = StatusSuccess
	r.Message = message
	return r
}

// 📈 Summary counts results by status
type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Error   int `json:"error"`
}

// Summarize counts results
func Summarize(results []ItemResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Success++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Error++
		}
	}
	return s
}

// 📦 Report is everything one run produced
type Report struct {
	Tool      string        `json:"tool"`
	Mode      Mode          `json:"mode"`
	Root      string        `json:"root"`
	Results   []ItemResult  `json:"results"`
	Faults    []error       `json:"-"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// Summary computes totals from the current results
func (r *Report) Summary() Summary {
	return Summarize(r.Results)
}

// Processed is the number of entries that were changed, or would be in preview mode
func (r *Report) Processed() int {
	return r.Summary().Success
}

// HasProblems reports whether any item failed or any directory could not be listed
func (r *Report) HasProblems() bool {
	return r.Summary().Error > 0 || len(r.Faults) > 0
}
