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
	"path"
	"strings"
	"unicode"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 📛 RenameRule selects how a name is rewritten
type RenameRule string

const (
	RuleReplace RenameRule = "replace"
	RulePrefix  RenameRule = "prefix"
	RuleSuffix  RenameRule = "suffix"
	RuleCase    RenameRule = "case"
	RuleNumber  RenameRule = "number"
)

// 🔠 CaseMode is the target of the case rule
type CaseMode string

const (
	CaseUpper CaseMode = "upper"
	CaseLower CaseMode = "lower"
	CaseTitle CaseMode = "title"
)

// 📝 Rename rewrites entry names.
//
// For files the base name and extension are split at the last dot and only
// the base name is rewritten unless IncludeExtensions is set. Directories
// are rewritten as a whole.
type Rename struct {
	Rule RenameRule `json:"rule" yaml:"rule" hcl:"rule"`

	// Search and Replace drive the replace rule, and the extension when
	// IncludeExtensions is set with the prefix or suffix rule
	Search  string `json:"search" yaml:"search" hcl:"search,optional"`
	Replace string `json:"replace" yaml:"replace" hcl:"replace,optional"`

	Prefix string   `json:"prefix" yaml:"prefix" hcl:"prefix,optional"`
	Suffix string   `json:"suffix" yaml:"suffix" hcl:"suffix,optional"`
	Case   CaseMode `json:"case" yaml:"case" hcl:"case,optional"`

	// Numbering produces Prefix + "_" + zero padded (Start + index)
	Start int `json:"start" yaml:"start" hcl:"start,optional"`
	Width int `json:"width" yaml:"width" hcl:"width,optional"`

	IncludeExtensions bool `json:"include_extensions" yaml:"include_extensions" hcl:"include_extensions,optional"`

	// index counts renamed items in the current run
	index int

	// planned holds, per parent path, names claimed (true) or vacated
	// (false) by renames planned earlier in a preview run
	planned map[string]map[string]bool
}

var (
	_ Transform = (*Rename)(nil)
	_ Resetter  = (*Rename)(nil)
)

func (r *Rename) Tool() string { return "rename" }

// Reset restarts numbering and forgets planned renames
func (r *Rename) Reset() {
	r.index = 0
	r.planned = nil
}

// Validate implements Transform
func (r *Rename) Validate() error {
	switch r.Rule {
	case RuleReplace:
		if r.Search == "" {
			return fault.Configf("search string is required for rule %q", r.Rule)
		}
	case RulePrefix:
		if r.Prefix == "" {
			return fault.Configf("prefix is required for rule %q", r.Rule)
		}
	case RuleSuffix:
		if r.Suffix == "" {
			return fault.Configf("suffix is required for rule %q", r.Rule)
		}
	case RuleCase:
		switch r.Case {
		case CaseUpper, CaseLower, CaseTitle:
		default:
			return fault.Configf("case must be one of upper, lower or title, got %q", r.Case)
		}
	case RuleNumber:
		if r.Start < 0 {
			return fault.Configf("number start must not be negative")
		}
		if r.Width < 0 {
			return fault.Configf("number width must not be negative")
		}
	case "":
		return fault.Configf("rename rule is required")
	default:
		return fault.Configf("unknown rename rule %q", r.Rule)
	}
	return nil
}

// NewName computes the new name for an entry without touching anything
func (r *Rename) NewName(name string, kind hostfs.Kind) string {
	base, ext := name, ""
	if kind == hostfs.KindFile {
		base, ext = hostfs.SplitExt(name)
	}

	switch r.Rule {
	case RuleReplace:
		base = strings.ReplaceAll(base, r.Search, r.Replace)
		if r.IncludeExtensions {
			ext = strings.ReplaceAll(ext, r.Search, r.Replace)
		}
	case RulePrefix, RuleSuffix:
		if r.Rule == RulePrefix {
			base = r.Prefix + base
		} else {
			base = base + r.Suffix
		}
		if r.IncludeExtensions && r.Search != "" {
			ext = strings.ReplaceAll(ext, r.Search, r.Replace)
		}
	case RuleCase:
		base = convertCase(base, r.Case)
		if r.IncludeExtensions && r.Case != CaseTitle {
			ext = convertCase(ext, r.Case)
		}
	case RuleNumber:
		base = r.number()
	}
	return base + ext
}

func (r *Rename) number() string {
	n := fmt.Sprintf("%0*d", r.Width, r.Start+r.index)
	if r.Prefix == "" {
		return n
	}
	return r.Prefix + "_" + n
}

// Apply implements Transform
func (r *Rename) Apply(ctx context.Context, fsys hostfs.FileSystem, e walk.Entry, mode status.Mode) status.ItemResult {
	res := newResult(e)
	res.Original = e.Name

	newName := r.NewName(e.Name, e.Kind)
	res.New = newName

	if newName == e.Name {
		return status.Skipped(res, "name unchanged")
	}
	if err := hostfs.ValidateName(newName); err != nil {
		return status.Failed(res, fault.New(fault.KindRename, e.Path, err))
	}

	if mode == status.ModePreview {
		planned, err := r.plan(ctx, fsys, e, newName)
		if err != nil {
			return status.Failed(res, fault.New(fault.KindRename, e.Path, err))
		}
		r.index++
		res.New = planned
		res.Count = 1
		return status.Succeeded(res, fmt.Sprintf("planned rename to %s", planned))
	}

	renamed, err := fsys.Rename(ctx, e.Handle, newName)
	if err != nil {
		return status.Failed(res, fault.New(fault.KindRename, e.Path, err))
	}

	r.index++
	res.New = renamed.Name()
	res.Count = 1
	return status.Succeeded(res, fmt.Sprintf("renamed to %s", renamed.Name()))
}

// plan predicts the name Rename would end up with, applying the collision
// policy against the disk and against renames planned earlier in the run
func (r *Rename) plan(ctx context.Context, fsys hostfs.FileSystem, e walk.Entry, newName string) (string, error) {
	planner, ok := fsys.(hostfs.Planner)
	if !ok {
		return newName, nil
	}

	dir := path.Dir(e.Path)
	taken := func(name string) (bool, error) {
		if claimed, ok := r.planned[dir][name]; ok {
			return claimed, nil
		}
		return planner.Taken(ctx, e.Handle, name)
	}

	target := newName
	busy, err := taken(target)
	if err != nil {
		return "", err
	}
	if busy {
		switch planner.Collision() {
		case hostfs.CollisionOverwrite:
		case hostfs.CollisionSuffix:
			target = ""
			for n := 1; n <= hostfs.MaxSuffixAttempts && target == ""; n++ {
				candidate := hostfs.SuffixName(newName, n)
				if candidate == e.Name {
					// the source still holds its own name while Rename searches
					continue
				}
				if busy, err := taken(candidate); err != nil {
					return "", err
				} else if !busy {
					target = candidate
				}
			}
			if target == "" {
				return "", errors.Errorf("%w: no free name for %s after %d attempts", fault.ErrCollision, newName, hostfs.MaxSuffixAttempts)
			}
		default:
			return "", errors.Errorf("%w: %s", fault.ErrCollision, newName)
		}
	}

	if r.planned == nil {
		r.planned = map[string]map[string]bool{}
	}
	if r.planned[dir] == nil {
		r.planned[dir] = map[string]bool{}
	}
	r.planned[dir][e.Name] = false
	r.planned[dir][target] = true
	return target, nil
}

func convertCase(s string, mode CaseMode) string {
	switch mode {
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseLower:
		return strings.ToLower(s)
	case CaseTitle:
		return titleCase(s)
	default:
		return s
	}
}

// titleCase upper-cases the first letter of each whitespace separated word and lower-cases the rest
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			start = true
			b.WriteRune(r)
		case start:
			b.WriteRune(unicode.ToUpper(r))
			start = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
