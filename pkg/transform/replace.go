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

package transform

import (
	"context"
	"fmt"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/text"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
)

// 🔍 Replace substitutes text inside files
type Replace struct {
	Search  string `json:"search" yaml:"search" hcl:"search"`
	Replace string `json:"replace" yaml:"replace" hcl:"replace,optional"`
	Regex   bool   `json:"regex" yaml:"regex" hcl:"regex,optional"`

	// StripBOM removes a leading byte order mark before matching
	StripBOM bool `json:"strip_bom" yaml:"strip_bom" hcl:"strip_bom,optional"`

	// KeepBackup copies each file next to itself before it is rewritten
	KeepBackup bool `json:"keep_backup" yaml:"keep_backup" hcl:"keep_backup,optional"`

	// ExcerptLength bounds the preview excerpts, text.DefaultExcerptLength when zero
	ExcerptLength int `json:"excerpt_length" yaml:"excerpt_length" hcl:"excerpt_length,optional"`

	replacer *text.Replacer
}

var _ Transform = (*Replace)(nil)

func (r *Replace) Tool() string { return "replace" }

// Rule returns the replacement rule built from the fields
func (r *Replace) Rule() text.ReplacementRule {
	return text.ReplacementRule{Search: r.Search, Replace: r.Replace, Regex: r.Regex}
}

// Validate implements Transform and compiles the pattern
func (r *Replace) Validate() error {
	if r.ExcerptLength < 0 {
		return fault.Configf("excerpt length must not be negative")
	}
	replacer, err := text.NewReplacer(r.Rule())
	if err != nil {
		return err
	}
	r.replacer = replacer
	return nil
}

// Apply implements Transform
func (r *Replace) Apply(ctx context.Context, fsys hostfs.FileSystem, e walk.Entry, mode status.Mode) status.ItemResult {
	res := newResult(e)
	if e.Kind != hostfs.KindFile {
		return status.Skipped(res, "not a file")
	}
	if r.replacer == nil {
		if err := r.Validate(); err != nil {
			return status.Failed(res, err)
		}
	}

	raw, err := fsys.ReadFile(ctx, e.Handle)
	if err != nil {
		return status.Failed(res, fault.New(fault.KindRead, e.Path, err))
	}

	content := raw
	if r.StripBOM {
		content, _ = text.StripBOM(raw)
	}

	result := r.replacer.ReplaceText(string(content))
	res.Count = result.ReplacementCount

	if result.ReplacementCount == 0 {
		return status.Skipped(res, "no matches")
	}
	if !result.WasModified {
		return status.Skipped(res, "content unchanged")
	}

	if mode == status.ModePreview {
		res.Original = text.Excerpt(result.OriginalContent, r.ExcerptLength)
		res.New = text.Excerpt(result.ModifiedContent, r.ExcerptLength)
		return status.Succeeded(res, fmt.Sprintf("%d matches would be replaced", result.ReplacementCount))
	}

	backupPath, err := backup(ctx, fsys, e, r.KeepBackup)
	if err != nil {
		return status.Failed(res, fault.New(fault.KindWrite, e.Path, err))
	}
	res.BackupPath = backupPath

	if err := hostfs.WriteAll(ctx, fsys, e.Handle, []byte(result.ModifiedContent)); err != nil {
		return status.Failed(res, fault.New(fault.KindWrite, e.Path, err))
	}
	return status.Succeeded(res, fmt.Sprintf("%d matches replaced", result.ReplacementCount))
}
