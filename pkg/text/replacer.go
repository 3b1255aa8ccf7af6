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

// Package text holds the string level pieces of the transforms: literal and
// regular expression replacement with match counting, byte order mark helpers,
// excerpts and diffs for previews.
package text

import (
	"regexp"
	"strings"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
)

// 📝 ReplacementRule describes a global search and replace
type ReplacementRule struct {
	Search  string `json:"search" yaml:"search" hcl:"search"`
	Replace string `json:"replace" yaml:"replace" hcl:"replace,optional"`
	Regex   bool   `json:"regex" yaml:"regex" hcl:"regex,optional"`
}

// 📊 ReplacementResult is the outcome of applying a rule to some content
type ReplacementResult struct {
	OriginalContent  string
	ModifiedContent  string
	ReplacementCount int
	WasModified      bool
}

// 🔄 Replacer applies a validated ReplacementRule
type Replacer struct {
	rule ReplacementRule
	re   *regexp.Regexp
}

// NewReplacer validates rule and compiles it when it is a regular expression
func NewReplacer(rule ReplacementRule) (*Replacer, error) {
	if rule.Search == "" {
		return nil, fault.Configf("search string is required")
	}

	r := &Replacer{rule: rule}
	if rule.Regex {
		re, err := regexp.Compile(rule.Search)
		if err != nil {
			return nil, fault.Configf("invalid regular expression %q: %v", rule.Search, err)
		}
		r.re = re
	}
	return r, nil
}

// Rule returns the rule the replacer was built from
func (r *Replacer) Rule() ReplacementRule {
	return r.rule
}

// Count returns the number of non-overlapping matches in content
func (r *Replacer) Count(content string) int {
	if r.re != nil {
		return len(r.re.FindAllStringIndex(content, -1))
	}
	return strings.Count(content, r.rule.Search)
}

// ReplaceText counts matches and then replaces every one of them.
// Content without matches is returned untouched.
func (r *Replacer) ReplaceText(content string) *ReplacementResult {
	result := &ReplacementResult{
		OriginalContent: content,
		ModifiedContent: content,
	}

	result.ReplacementCount = r.Count(content)
	if result.ReplacementCount == 0 {
		return result
	}

	if r.re != nil {
		result.ModifiedContent = r.re.ReplaceAllString(content, r.rule.Replace)
	} else {
		result.ModifiedContent = strings.ReplaceAll(content, r.rule.Search, r.rule.Replace)
	}
	result.WasModified = result.ModifiedContent != content
	return result
}
