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

// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files under root. Keys are slash separated relative paths;
// a key ending in "/" creates an empty directory.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			require.NoError(t, os.MkdirAll(p, 0o755), "creating directory %s", rel)
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755), "creating parent of %s", rel)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644), "writing %s", rel)
	}
}

// Snapshot returns every file under root keyed by slash separated relative path
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err, "snapshotting %s", root)
	return out
}

// OpenRoot returns a LocalFS and a handle on root
func OpenRoot(t *testing.T, root string, opts ...hostfs.Option) (*hostfs.LocalFS, hostfs.Handle) {
	t.Helper()
	fsys := hostfs.NewLocalFS(opts...)
	h, err := fsys.Open(root)
	require.NoError(t, err, "opening root %s", root)
	return fsys, h
}

// 💣 FaultyFS wraps a LocalFS and fails selected operations by leaf name
type FaultyFS struct {
	*hostfs.LocalFS

	ListErrors   map[string]error
	ReadErrors   map[string]error
	WriteErrors  map[string]error
	RenameErrors map[string]error

	// Calls counts mutating calls by operation name
	Calls map[string]int
}

// NewFaultyFS wraps fsys with no failures configured
func NewFaultyFS(fsys *hostfs.LocalFS) *FaultyFS {
	return &FaultyFS{
		LocalFS:      fsys,
		ListErrors:   map[string]error{},
		ReadErrors:   map[string]error{},
		WriteErrors:  map[string]error{},
		RenameErrors: map[string]error{},
		Calls:        map[string]int{},
	}
}

var _ hostfs.FileSystem = (*FaultyFS)(nil)

func (f *FaultyFS) List(ctx context.Context, dir hostfs.Handle) ([]hostfs.Handle, error) {
	if err, ok := f.ListErrors[dir.Name()]; ok {
		return nil, err
	}
	return f.LocalFS.List(ctx, dir)
}

func (f *FaultyFS) ReadFile(ctx context.Context, file hostfs.Handle) ([]byte, error) {
	if err, ok := f.ReadErrors[file.Name()]; ok {
		return nil, err
	}
	return f.LocalFS.ReadFile(ctx, file)
}

func (f *FaultyFS) OpenWritable(ctx context.Context, file hostfs.Handle) (io.WriteCloser, error) {
	f.Calls["write"]++
	if err, ok := f.WriteErrors[file.Name()]; ok {
		return nil, err
	}
	return f.LocalFS.OpenWritable(ctx, file)
}

func (f *FaultyFS) Rename(ctx context.Context, h hostfs.Handle, newName string) (hostfs.Handle, error) {
	f.Calls["rename"]++
	if err, ok := f.RenameErrors[h.Name()]; ok {
		return nil, err
	}
	return f.LocalFS.Rename(ctx, h, newName)
}
