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

package text

import "bytes"

// BOM is the UTF-8 byte order mark
var BOM = []byte{0xEF, 0xBB, 0xBF}

// HasBOM reports whether content starts with the UTF-8 byte order mark
func HasBOM(content []byte) bool {
	return bytes.HasPrefix(content, BOM)
}

// StripBOM removes a leading byte order mark and reports whether one was found
func StripBOM(content []byte) ([]byte, bool) {
	if !HasBOM(content) {
		return content, false
	}
	return content[len(BOM):], true
}

// AddBOM returns content with a byte order mark in front. Content that
// already has one is returned as is.
func AddBOM(content []byte) []byte {
	if HasBOM(content) {
		return content
	}
	out := make([]byte, 0, len(BOM)+len(content))
	out = append(out, BOM...)
	return append(out, content...)
}
