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

// Package fault defines the error kinds a batch run can produce.
//
// Configuration errors stop a run before it starts. Enumeration faults
// skip a subtree. Read, write and rename faults are caught at the item
// boundary and turned into an error result for that item.
package fault

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// 🏷️ Base errors, usable with errors.Is
var (
	ErrConfiguration = errors.Base("invalid configuration")
	ErrEnumeration   = errors.Base("listing directory")
	ErrRead          = errors.Base("reading file")
	ErrWrite         = errors.Base("writing file")
	ErrRename        = errors.Base("renaming entry")
	ErrCollision     = errors.Base("target name already exists")
)

// 📊 Kind classifies an Error
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindEnumeration
	KindRead
	KindWrite
	KindRename
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindEnumeration:
		return "enumeration"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindRename:
		return "rename"
	default:
		return "unknown"
	}
}

func (k Kind) base() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindEnumeration:
		return ErrEnumeration
	case KindRead:
		return ErrRead
	case KindWrite:
		return ErrWrite
	case KindRename:
		return ErrRename
	default:
		return nil
	}
}

// 🚨 Error is a fault tied to a single path
type Error struct {
	Kind Kind
	Path string
	Err  error
}

// New creates a kinded error for path wrapping err
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	msg := kindMessage(e.Kind)
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", msg, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s %s", msg, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an Error against the base error of its kind
func (e *Error) Is(target error) bool {
	base := e.Kind.base()
	return base != nil && target == base
}

func kindMessage(k Kind) string {
	if base := k.base(); base != nil {
		return base.Error()
	}
	return "fault"
}

// Configf returns a configuration error with a formatted message
func Configf(format string, args ...any) error {
	return errors.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IsConfiguration reports whether err is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// KindOf returns the Kind of the first Error in err's chain
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, ErrConfiguration) {
		return KindConfiguration
	}
	return KindUnknown
}
