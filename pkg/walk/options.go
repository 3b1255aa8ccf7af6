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

package walk

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
)

// ⚙️ Options controls which entries a walk produces
type Options struct {
	// Recursive descends into subdirectories; otherwise only the root's children are seen
	Recursive bool `json:"recursive" yaml:"recursive" hcl:"recursive,optional"`

	// IncludeFiles and IncludeDirectories select the entry kinds in the output
	IncludeFiles       bool `json:"include_files" yaml:"include_files" hcl:"include_files,optional"`
	IncludeDirectories bool `json:"include_directories" yaml:"include_directories" hcl:"include_directories,optional"`

	// Extensions is an allow-list of file suffixes like ".txt", matched case-sensitively
	Extensions []string `json:"extensions" yaml:"extensions" hcl:"extensions,optional"`

	// ExcludeDirs names directories that are neither included nor descended into
	ExcludeDirs []string `json:"exclude_dirs" yaml:"exclude_dirs" hcl:"exclude_dirs,optional"`

	// IgnorePatterns are doublestar globs matched against the slash separated relative path
	IgnorePatterns []string `json:"ignore" yaml:"ignore" hcl:"ignore,optional"`
}

// DefaultOptions walks every file recursively
func DefaultOptions() Options {
	return Options{
		Recursive:    true,
		IncludeFiles: true,
	}
}

// ✅ Validate checks the options and normalizes the extension list
func (o *Options) Validate() error {
	if !o.IncludeFiles && !o.IncludeDirectories {
		return fault.Configf("no target type selected: include files, directories or both")
	}
	for _, p := range o.IgnorePatterns {
		if !doublestar.ValidatePattern(p) {
			return fault.Configf("invalid ignore pattern %q", p)
		}
	}
	for _, d := range o.ExcludeDirs {
		if strings.ContainsAny(d, `/\`) {
			return fault.Configf("excluded directory %q must be a plain name", d)
		}
	}
	o.Extensions = NormalizeExtensions(o.Extensions)
	return nil
}

// ParseList splits a comma separated list, trimming blanks and dropping empty items.
// "*.txt, *.py" becomes ["*.txt", "*.py"].
func ParseList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// NormalizeExtensions turns "*.txt", ".txt" and "txt" into ".txt".
// Wildcards that match everything ("*", "*.*") are dropped.
func NormalizeExtensions(exts []string) []string {
	var out []string
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*")
		if ext == "" || ext == ".*" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !seen[ext] {
			seen[ext] = true
			out = append(out, ext)
		}
	}
	return out
}

// Extension returns the suffix of name starting at its last dot, or "" when there is none
func Extension(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	return name[i:]
}

func (o Options) matchesExtension(name string) bool {
	if len(o.Extensions) == 0 {
		return true
	}
	ext := Extension(name)
	for _, allowed := range o.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (o Options) excluded(name string) bool {
	for _, d := range o.ExcludeDirs {
		if d == name {
			return true
		}
	}
	return false
}

func (o Options) ignored(rel string) bool {
	for _, p := range o.IgnorePatterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
