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
	"encoding/csv"
	"io"
	"strconv"

	"gitlab.com/tozd/go/errors"
)

// CSVHeader is the first row written by WriteCSV
var CSVHeader = []string{"name", "path", "status", "count", "message"}

// 📤 WriteCSV exports results as one row per item followed by a blank row and summary rows
func WriteCSV(w io.Writer, results []ItemResult) error {
	cw := csv.NewWriter(w)

	rows := make([][]string, 0, len(results)+6)
	rows = append(rows, CSVHeader)
	for _, r := range results {
		rows = append(rows, []string{r.Name, r.Path, string(r.Status), strconv.Itoa(r.Count), r.Message})
	}

	s := Summarize(results)
	rows = append(rows,
		[]string{""},
		[]string{"total", strconv.Itoa(s.Total)},
		[]string{"success", strconv.Itoa(s.Success)},
		[]string{"skipped", strconv.Itoa(s.Skipped)},
		[]string{"error", strconv.Itoa(s.Error)},
	)

	if err := cw.WriteAll(rows); err != nil {
		return errors.Errorf("writing csv: %w", err)
	}
	return nil
}
