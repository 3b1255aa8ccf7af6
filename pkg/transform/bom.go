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

package transform

import (
	"context"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/text"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
)

// BOMAction is what the BOM transform does to a file
type BOMAction string

const (
	BOMRemove BOMAction = "remove"
	BOMAdd    BOMAction = "add"
)

const (
	descBOM   = "BOM"
	descNoBOM = "no BOM"
)

// 🔖 BOM adds or removes the UTF-8 byte order mark
type BOM struct {
	Action     BOMAction `json:"action" yaml:"action" hcl:"action"`
	KeepBackup bool      `json:"keep_backup" yaml:"keep_backup" hcl:"keep_backup,optional"`
}

var _ Transform = (*BOM)(nil)

func (b *BOM) Tool() string { return "bom" }

// Validate implements Transform
func (b *BOM) Validate() error {
	switch b.Action {
	case BOMRemove, BOMAdd:
		return nil
	case "":
		return fault.Configf("bom action is required")
	default:
		return fault.Configf("bom action must be remove or add, got %q", b.Action)
	}
}

// Apply implements Transform. The mark is detected on the bytes read now,
// never on the result of an earlier scan.
func (b *BOM) Apply(ctx context.Context, fsys hostfs.FileSystem, e walk.Entry, mode status.Mode) status.ItemResult {
	res := newResult(e)
	if e.Kind != hostfs.KindFile {
		return status.Skipped(res, "not a file")
	}

	raw, err := fsys.ReadFile(ctx, e.Handle)
	if err != nil {
		return status.Failed(res, fault.New(fault.KindRead, e.Path, err))
	}

	has := text.HasBOM(raw)
	var updated []byte
	switch b.Action {
	case BOMRemove:
		res.Original, res.New = descBOM, descNoBOM
		if !has {
			res.Original = descNoBOM
			return status.Skipped(res, "no BOM present")
		}
		updated, _ = text.StripBOM(raw)
	case BOMAdd:
		res.Original, res.New = descNoBOM, descBOM
		if has {
			res.Original = descBOM
			return status.Skipped(res, "BOM already present")
		}
		updated = text.AddBOM(raw)
	default:
		return status.Failed(res, b.Validate())
	}

	res.Count = 1
	if mode == status.ModePreview {
		return status.Succeeded(res, "planned: "+string(b.Action)+" BOM")
	}

	backupPath, err := backup(ctx, fsys, e, b.KeepBackup)
	if err != nil {
		return status.Failed(res, fault.New(fault.KindWrite, e.Path, err))
	}
	res.BackupPath = backupPath

	if err := hostfs.WriteAll(ctx, fsys, e.Handle, updated); err != nil {
		res.Count = 0
		return status.Failed(res, fault.New(fault.KindWrite, e.Path, err))
	}
	if b.Action == BOMRemove {
		return status.Succeeded(res, "BOM removed")
	}
	return status.Succeeded(res, "BOM added")
}

// 🔎 ScanResult reports whether one file starts with a byte order mark
type ScanResult struct {
	Path   string
	HasBOM bool
	Err    error
}

// ScanBOM reads every file entry and reports whether it has a byte order mark.
// Nothing is written.
func ScanBOM(ctx context.Context, fsys hostfs.FileSystem, entries []walk.Entry) ([]ScanResult, error) {
	out := make([]ScanResult, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if e.Kind != hostfs.KindFile {
			continue
		}
		raw, err := fsys.ReadFile(ctx, e.Handle)
		if err != nil {
			out = append(out, ScanResult{Path: e.Path, Err: fault.New(fault.KindRead, e.Path, err)})
			continue
		}
		out = append(out, ScanResult{Path: e.Path, HasBOM: text.HasBOM(raw)})
	}
	return out, nil
}
