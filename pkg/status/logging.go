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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 15 // Width for entry kind
	statusWidth = 15 // Width for status text
)

// 🎯 FormatItemLine formats an item result as one aligned console line
func FormatItemLine(r ItemResult, mode Mode) string {
	// Determine prefix symbol
	var prefix string
	switch {
	case r.Status == StatusError:
		prefix = color.RedString("✗")
	case r.Status == StatusSkipped:
		prefix = color.HiBlackString("-")
	case mode == ModePreview:
		prefix = color.CyanString("•")
	default:
		prefix = color.GreenString("✓")
	}

	statusText := string(r.Status)
	if r.Status == StatusSuccess && mode == ModePreview {
		statusText = "planned"
	}

	// Format parts with padding
	namePart := fmt.Sprintf("%-*s", nameWidth, r.Path)
	typePart := fmt.Sprintf("%-*s", typeWidth, r.Kind.String())
	statusPart := fmt.Sprintf("%-*s", statusWidth, statusText)

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", fileIndent),
		prefix,
		namePart,
		typePart,
		statusPart,
	)

	switch {
	case r.Status == StatusError:
		line += color.RedString(r.Message)
	case r.Status == StatusSuccess && r.Original != r.New && r.Count <= 1 && r.New != "":
		line += color.HiBlackString("%s → %s", r.Original, r.New)
	case r.Status == StatusSuccess && r.Count > 1:
		line += color.HiBlackString("%d matches", r.Count)
	}
	return strings.TrimRight(line, " ")
}
