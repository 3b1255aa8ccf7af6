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
	"io"
)

// 📂 Kind is the type of a filesystem object
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

// String returns a string representation of Kind
func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// 🔑 Handle is an opaque reference to a file or directory owned by the host.
// The engine only reads its name and kind.
type Handle interface {
	Name() string
	Kind() Kind
}

// 💾 FileSystem is the capability the engine needs from its host
type FileSystem interface {
	// List returns the immediate children of dir in host order
	List(ctx context.Context, dir Handle) ([]Handle, error)

	// ReadFile returns the raw bytes of file
	ReadFile(ctx context.Context, file Handle) ([]byte, error)

	// OpenWritable returns a sink that replaces the content of file when closed
	OpenWritable(ctx context.Context, file Handle) (io.WriteCloser, error)

	// Rename gives h a new leaf name inside its parent and returns the renamed handle
	Rename(ctx context.Context, h Handle, newName string) (Handle, error)
}

// 🗄️ Backuper is implemented by filesystems that can keep a copy of a file
// before it is overwritten
type Backuper interface {
	// Backup copies file next to itself and returns the backup location
	Backup(ctx context.Context, file Handle) (string, error)
}

// 🔮 Planner is implemented by filesystems that can predict what Rename will
// do without changing anything
type Planner interface {
	// Taken reports whether name is used in the parent of h by an object other than h
	Taken(ctx context.Context, h Handle, name string) (bool, error)

	// Collision returns the policy Rename applies when the target name is taken
	Collision() CollisionPolicy
}

// WriteAll writes content to file through OpenWritable
func WriteAll(ctx context.Context, fsys FileSystem, file Handle, content []byte) error {
	w, err := fsys.OpenWritable(ctx, file)
	if err != nil {
		return err
	}
	if _, err := w.Write(content); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
