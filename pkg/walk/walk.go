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

// Package walk enumerates a directory tree through a hostfs.FileSystem.
//
// Entries come out in the host's listing order, which differs between
// platforms. A directory is emitted after everything below it, so renaming
// it never invalidates a handle that is still to be processed.
package walk

import (
	"context"
	"path"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/rs/zerolog"
)

// 📄 Entry is one object discovered during a walk
type Entry struct {
	// Path is relative to the walk root and always uses forward slashes
	Path   string
	Name   string
	Kind   hostfs.Kind
	Handle hostfs.Handle
}

// 📦 Result holds what a walk found
type Result struct {
	Entries []Entry

	// Faults are directories that could not be listed; their subtrees are missing from Entries
	Faults []error
}

// 🚶 Walk enumerates root with opts. It returns an error only for invalid
// options, a root that is not a directory, or a cancelled context.
// Unlistable directories are recorded in Result.Faults and skipped.
func Walk(ctx context.Context, fsys hostfs.FileSystem, root hostfs.Handle, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if root == nil || root.Kind() != hostfs.KindDirectory {
		return nil, fault.Configf("walk root must be a directory")
	}

	w := &walker{fsys: fsys, opts: opts, result: &Result{}}
	if err := w.dir(ctx, root, ""); err != nil {
		return w.result, err
	}
	return w.result, nil
}

type walker struct {
	fsys   hostfs.FileSystem
	opts   Options
	result *Result
}

func (w *walker) dir(ctx context.Context, dir hostfs.Handle, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	children, err := w.fsys.List(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		display := rel
		if display == "" {
			display = "."
		}
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", display).Msg("skipping directory that could not be listed")
		w.result.Faults = append(w.result.Faults, fault.New(fault.KindEnumeration, display, err))
		return nil
	}

	for _, child := range children {
		name := child.Name()
		childRel := path.Join(rel, name)

		if child.Kind() == hostfs.KindDirectory {
			if w.opts.excluded(name) || w.opts.ignored(childRel) {
				zerolog.Ctx(ctx).Debug().Str("path", childRel).Msg("excluded directory")
				continue
			}
			if w.opts.Recursive {
				if err := w.dir(ctx, child, childRel); err != nil {
					return err
				}
			}
			if w.opts.IncludeDirectories {
				w.emit(child, childRel)
			}
			continue
		}

		if !w.opts.IncludeFiles || !w.opts.matchesExtension(name) || w.opts.ignored(childRel) {
			continue
		}
		w.emit(child, childRel)
	}
	return nil
}

func (w *walker) emit(h hostfs.Handle, rel string) {
	w.result.Entries = append(w.result.Entries, Entry{
		Path:   rel,
		Name:   h.Name(),
		Kind:   h.Kind(),
		Handle: h,
	})
}
