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

package hostfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💥 CollisionPolicy decides what Rename does when the target name is taken
type CollisionPolicy string

const (
	CollisionFail      CollisionPolicy = "fail"
	CollisionOverwrite CollisionPolicy = "overwrite"
	CollisionSuffix    CollisionPolicy = "suffix"
)

// MaxSuffixAttempts bounds the search for a free suffixed or backup name
const MaxSuffixAttempts = 1000

// ParseCollisionPolicy parses a policy name; empty means CollisionFail
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch p := CollisionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CollisionFail, nil
	case CollisionFail, CollisionOverwrite, CollisionSuffix:
		return p, nil
	default:
		return "", fault.Configf("unknown collision policy %q", s)
	}
}

// 📄 localHandle points at a path on the local disk
type localHandle struct {
	path string
	kind Kind
}

func (h *localHandle) Name() string { return filepath.Base(h.path) }
func (h *localHandle) Kind() Kind   { return h.kind }

// PathOf returns the local path behind h, if h came from a LocalFS
func PathOf(h Handle) (string, bool) {
	lh, ok := h.(*localHandle)
	if !ok {
		return "", false
	}
	return lh.path, true
}

// 💽 LocalFS implements FileSystem and Backuper on the local disk
type LocalFS struct {
	collision CollisionPolicy
}

// Option configures a LocalFS
type Option func(*LocalFS)

// WithCollisionPolicy sets the rename collision policy
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(l *LocalFS) {
		l.collision = p
	}
}

// 🏭 NewLocalFS creates a LocalFS
func NewLocalFS(opts ...Option) *LocalFS {
	l := &LocalFS{collision: CollisionFail}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	_ FileSystem = (*LocalFS)(nil)
	_ Backuper   = (*LocalFS)(nil)
	_ Planner    = (*LocalFS)(nil)
)

// Open returns a handle for an existing path
func (l *LocalFS) Open(path string) (Handle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	kind := KindFile
	if info.IsDir() {
		kind = KindDirectory
	}
	return &localHandle{path: abs, kind: kind}, nil
}

func (l *LocalFS) local(h Handle) (*localHandle, error) {
	lh, ok := h.(*localHandle)
	if !ok {
		return nil, errors.Errorf("handle %q does not belong to the local filesystem", h.Name())
	}
	return lh, nil
}

// List implements FileSystem.List
func (l *LocalFS) List(ctx context.Context, dir Handle) ([]Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lh, err := l.local(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(lh.path)
	if err != nil {
		return nil, errors.Errorf("reading directory: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	handles := make([]Handle, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(lh.path, e.Name())
		switch {
		case e.IsDir():
			handles = append(handles, &localHandle{path: p, kind: KindDirectory})
		case e.Type().IsRegular():
			handles = append(handles, &localHandle{path: p, kind: KindFile})
		case e.Type()&os.ModeSymlink != 0:
			// symlinked files are followed, symlinked directories are not
			info, err := os.Stat(p)
			if err != nil || !info.Mode().IsRegular() {
				logger.Debug().Str("path", p).Msg("skipping symlink that is not a regular file")
				continue
			}
			handles = append(handles, &localHandle{path: p, kind: KindFile})
		default:
			logger.Debug().Str("path", p).Str("mode", e.Type().String()).Msg("skipping irregular file")
		}
	}
	return handles, nil
}

// ReadFile implements FileSystem.ReadFile
func (l *LocalFS) ReadFile(ctx context.Context, file Handle) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lh, err := l.local(file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(lh.path)
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return data, nil
}

// OpenWritable implements FileSystem.OpenWritable. Content goes to a
// temporary file next to the resolved target that replaces it on Close.
func (l *LocalFS) OpenWritable(ctx context.Context, file Handle) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lh, err := l.local(file)
	if err != nil {
		return nil, err
	}
	if lh.kind != KindFile {
		return nil, errors.Errorf("cannot write to directory %s", lh.path)
	}

	target, err := resolve(lh.path)
	if err != nil {
		return nil, err
	}

	perm := os.FileMode(0o644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, errors.Errorf("creating temp file: %w", err)
	}
	return &atomicWriter{tmp: tmp, target: target, perm: perm}, nil
}

// resolve follows symlinks so a write replaces the link target and keeps the link
func resolve(path string) (string, error) {
	real, err := filepath.EvalSymlinks(path)
	if os.IsNotExist(err) {
		return path, nil
	}
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", path, err)
	}
	return real, nil
}

// 🔒 atomicWriter renames its temp file over the target on a clean Close
type atomicWriter struct {
	tmp    *os.File
	target string
	perm   os.FileMode
	err    error
	closed bool
}

func (w *atomicWriter) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.tmp.Write(p)
	if err != nil {
		w.err = errors.Errorf("writing temp file: %w", err)
		return n, w.err
	}
	return n, nil
}

func (w *atomicWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.err != nil {
		w.tmp.Close()
		os.Remove(w.tmp.Name())
		return w.err
	}
	if err := w.tmp.Sync(); err != nil {
		w.tmp.Close()
		os.Remove(w.tmp.Name())
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(w.tmp.Name(), w.perm); err != nil {
		os.Remove(w.tmp.Name())
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(w.tmp.Name(), w.target); err != nil {
		os.Remove(w.tmp.Name())
		return errors.Errorf("replacing file: %w", err)
	}
	return nil
}

// Rename implements FileSystem.Rename using the configured collision policy
func (l *LocalFS) Rename(ctx context.Context, h Handle, newName string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lh, err := l.local(h)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(newName); err != nil {
		return nil, err
	}

	target := filepath.Join(filepath.Dir(lh.path), newName)
	if target == lh.path {
		return lh, nil
	}

	target, err = l.resolveCollision(lh.path, target)
	if err != nil {
		return nil, err
	}

	if err := os.Rename(lh.path, target); err != nil {
		return nil, errors.Errorf("renaming %s: %w", lh.Name(), err)
	}

	zerolog.Ctx(ctx).Debug().Str("from", lh.path).Str("to", target).Msg("renamed")
	return &localHandle{path: target, kind: lh.kind}, nil
}

// ValidateName checks that name can be used as a single path element
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return errors.Errorf("invalid name %q", name)
	}
	return nil
}

// resolveCollision returns the path the source should be renamed to
func (l *LocalFS) resolveCollision(src, target string) (string, error) {
	taken, err := occupied(src, target)
	if err != nil || !taken {
		return target, err
	}

	switch l.collision {
	case CollisionOverwrite:
		return target, nil
	case CollisionSuffix:
		return uniqueName(target)
	default:
		return "", errors.Errorf("%w: %s", fault.ErrCollision, filepath.Base(target))
	}
}

// occupied reports whether target exists and is not src itself
func occupied(src, target string) (bool, error) {
	targetInfo, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("checking %s: %w", target, err)
	}

	// case-only rename on a case-insensitive filesystem
	if srcInfo, err := os.Lstat(src); err == nil && os.SameFile(srcInfo, targetInfo) {
		return false, nil
	}
	return true, nil
}

// uniqueName finds name_(n).ext that does not exist yet
func uniqueName(path string) (string, error) {
	dir := filepath.Dir(path)
	for n := 1; n <= MaxSuffixAttempts; n++ {
		candidate := filepath.Join(dir, SuffixName(filepath.Base(path), n))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", errors.Errorf("%w: no free name for %s after %d attempts", fault.ErrCollision, filepath.Base(path), MaxSuffixAttempts)
}

// SuffixName returns name with _(n) inserted before its extension
func SuffixName(name string, n int) string {
	base, ext := SplitExt(name)
	return fmt.Sprintf("%s_(%d)%s", base, n, ext)
}

// Taken implements Planner
func (l *LocalFS) Taken(ctx context.Context, h Handle, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	lh, err := l.local(h)
	if err != nil {
		return false, err
	}
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return occupied(lh.path, filepath.Join(filepath.Dir(lh.path), name))
}

// Collision implements Planner
func (l *LocalFS) Collision() CollisionPolicy { return l.collision }

// Backup implements Backuper by copying file to <name>.bak or <name>.bak.<n>
func (l *LocalFS) Backup(ctx context.Context, file Handle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lh, err := l.local(file)
	if err != nil {
		return "", err
	}

	dest := lh.path + ".bak"
	for n := 1; ; n++ {
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			break
		}
		if n > MaxSuffixAttempts {
			return "", errors.Errorf("no free backup name for %s", lh.path)
		}
		dest = fmt.Sprintf("%s.bak.%d", lh.path, n)
	}

	src, err := resolve(lh.path)
	if err != nil {
		return "", err
	}
	if err := copyFile(src, dest); err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Debug().Str("file", lh.path).Str("backup", dest).Msg("created backup")
	return dest, nil
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return errors.Errorf("opening source file: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return errors.Errorf("reading source info: %w", err)
	}

	destination, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errors.Errorf("creating backup file: %w", err)
	}

	if _, err := io.Copy(destination, source); err != nil {
		destination.Close()
		return errors.Errorf("copying file: %w", err)
	}
	if err := destination.Close(); err != nil {
		return errors.Errorf("closing backup file: %w", err)
	}
	return nil
}

// SplitExt splits name at its last dot. The extension keeps the dot.
func SplitExt(name string) (base, ext string) {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return name, ""
	}
	return name[:i], name[i:]
}
