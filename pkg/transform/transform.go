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

// Package transform holds the per-item strategies of a batch run: renaming
// entries, replacing text inside files and adding or removing the UTF-8
// byte order mark.
//
// Every strategy turns one walk.Entry into one status.ItemResult. Faults
// raised by the filesystem never escape Apply; they become error results.
package transform

import (
	"context"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/rs/zerolog"
)

// 🔧 Transform is a per-item strategy
type Transform interface {
	// Tool names the strategy in logs and reports
	Tool() string

	// Validate checks the configuration before any entry is visited
	Validate() error

	// Apply processes one entry. In preview mode nothing is written.
	Apply(ctx context.Context, fsys hostfs.FileSystem, entry walk.Entry, mode status.Mode) status.ItemResult
}

// 🔁 Resetter is implemented by transforms that carry state across the items of one run
type Resetter interface {
	Reset()
}

func newResult(e walk.Entry) status.ItemResult {
	return status.ItemResult{
		Name: e.Name,
		Path: e.Path,
		Kind: e.Kind,
	}
}

// backup copies the entry when keep is set and the filesystem supports it
func backup(ctx context.Context, fsys hostfs.FileSystem, e walk.Entry, keep bool) (string, error) {
	if !keep {
		return "", nil
	}
	b, ok := fsys.(hostfs.Backuper)
	if !ok {
		zerolog.Ctx(ctx).Warn().Str("path", e.Path).Msg("filesystem cannot create backups, writing without one")
		return "", nil
	}
	return b.Backup(ctx, e.Handle)
}
