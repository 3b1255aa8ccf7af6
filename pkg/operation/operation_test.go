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

package operation

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/testutils"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// 🔧 MockCollector is a mock implementation of the log.Collector interface
type MockCollector struct {
	mock.Mock
}

func (m *MockCollector) Add(ctx context.Context, e log.Entry) {
	m.Called(ctx, e)
}

// 🔧 MockReporter is a mock implementation of the status.StatusReporter interface
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) StartOperation(ctx context.Context, total int) {
	m.Called(ctx, total)
}

func (m *MockReporter) TrackItem(ctx context.Context, r status.ItemResult) {
	m.Called(ctx, r)
}

func (m *MockReporter) FinishOperation(ctx context.Context) {
	m.Called(ctx)
}

// 🔧 cancelAfter cancels the run once n items were applied
type cancelAfter struct {
	transform.Transform
	n      int
	cancel context.CancelFunc
	seen   int
}

func (c *cancelAfter) Apply(ctx context.Context, fsys hostfs.FileSystem, e walk.Entry, mode status.Mode) status.ItemResult {
	r := c.Transform.Apply(ctx, fsys, e, mode)
	c.seen++
	if c.seen == c.n {
		c.cancel()
	}
	return r
}

func testContext() context.Context {
	return zerolog.Nop().WithContext(context.Background())
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, zerolog.Nop())
}

func TestRun(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		transform transform.Transform
		mode      status.Mode
		walk      walk.Options
		want      status.Summary
		wantFiles map[string]string
	}{
		{
			name: "replace_commit",
			files: map[string]string{
				"a.txt":     "foofoo",
				"b.txt":     "nothing",
				"sub/c.txt": "foo",
			},
			transform: &transform.Replace{Search: "foo", Replace: "bar"},
			mode:      status.ModeCommit,
			walk:      walk.DefaultOptions(),
			want:      status.Summary{Total: 3, Success: 2, Skipped: 1},
			wantFiles: map[string]string{
				"a.txt":     "barbar",
				"b.txt":     "nothing",
				"sub/":      "",
				"sub/c.txt": "bar",
			},
		},
		{
			name: "replace_preview_writes_nothing",
			files: map[string]string{
				"a.txt": "foofoo",
			},
			transform: &transform.Replace{Search: "foo", Replace: "bar"},
			mode:      status.ModePreview,
			walk:      walk.DefaultOptions(),
			want:      status.Summary{Total: 1, Success: 1},
			wantFiles: map[string]string{
				"a.txt": "foofoo",
			},
		},
		{
			name: "rename_with_extension_filter",
			files: map[string]string{
				"a.TXT":     "",
				"b.txt":     "",
				"sub/c.txt": "",
			},
			transform: &transform.Rename{Rule: transform.RuleCase, Case: transform.CaseUpper},
			mode:      status.ModeCommit,
			walk:      walk.Options{Recursive: true, IncludeFiles: true, Extensions: []string{".txt"}},
			want:      status.Summary{Total: 2, Success: 2},
			wantFiles: map[string]string{
				"a.TXT":     "",
				"B.txt":     "",
				"sub/":      "",
				"sub/C.txt": "",
			},
		},
		{
			name: "empty_mode_is_preview",
			files: map[string]string{
				"a.txt": "foo",
			},
			transform: &transform.Replace{Search: "foo", Replace: "bar"},
			walk:      walk.DefaultOptions(),
			want:      status.Summary{Total: 1, Success: 1},
			wantFiles: map[string]string{
				"a.txt": "foo",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutils.WriteTree(t, dir, tt.files)
			fsys, root := testutils.OpenRoot(t, dir)

			report, err := Run(testContext(), Options{
				FS:        fsys,
				Root:      root,
				RootPath:  dir,
				Walk:      tt.walk,
				Transform: tt.transform,
				Mode:      tt.mode,
				Logger:    quietLogger(),
			})
			require.NoError(t, err, "run should succeed")

			assert.Equal(t, tt.want, report.Summary(), "summary should match")
			assert.Equal(t, tt.wantFiles, testutils.Snapshot(t, dir), "tree should match")
			assert.Equal(t, tt.transform.Tool(), report.Tool)
			assert.Equal(t, dir, report.Root)
		})
	}
}

func TestRun_ConfigurationErrorsStopBeforeWalking(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{"a.txt": "foo"})
	fsys, root := testutils.OpenRoot(t, dir)
	faulty := testutils.NewFaultyFS(fsys)
	faulty.ListErrors[filepath.Base(dir)] = os.ErrPermission

	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "missing_filesystem",
			opts: Options{Root: root, Transform: &transform.BOM{Action: transform.BOMRemove}, Walk: walk.DefaultOptions()},
		},
		{
			name: "missing_root",
			opts: Options{FS: faulty, Transform: &transform.BOM{Action: transform.BOMRemove}, Walk: walk.DefaultOptions()},
		},
		{
			name: "missing_transform",
			opts: Options{FS: faulty, Root: root, Walk: walk.DefaultOptions()},
		},
		{
			name: "empty_search",
			opts: Options{FS: faulty, Root: root, Transform: &transform.Replace{}, Walk: walk.DefaultOptions()},
		},
		{
			name: "invalid_regex",
			opts: Options{FS: faulty, Root: root, Transform: &transform.Replace{Search: "(", Regex: true}, Walk: walk.DefaultOptions()},
		},
		{
			name: "no_target_type",
			opts: Options{FS: faulty, Root: root, Transform: &transform.Replace{Search: "foo"}, Walk: walk.Options{Recursive: true}},
		},
		{
			name: "unknown_mode",
			opts: Options{FS: faulty, Root: root, Transform: &transform.Replace{Search: "foo"}, Walk: walk.DefaultOptions(), Mode: "later"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector := &MockCollector{}
			tt.opts.Collector = collector
			tt.opts.Logger = quietLogger()

			report, err := Run(testContext(), tt.opts)
			require.Error(t, err, "run should fail")
			assert.True(t, fault.IsConfiguration(err), "error should be a configuration error: %v", err)
			assert.Nil(t, report, "no report should be produced")

			// the collector is never called and the root listing would have failed
			collector.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
		})
	}
}

func TestRun_ItemFaultsDoNotAbort(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{
		"a.txt":      "foo",
		"b.txt":      "foo",
		"locked/":    "",
		"open/c.txt": "foo",
	})
	fsys, root := testutils.OpenRoot(t, dir)
	faulty := testutils.NewFaultyFS(fsys)
	faulty.WriteErrors["a.txt"] = os.ErrPermission
	faulty.ListErrors["locked"] = os.ErrPermission

	collector := &MockCollector{}
	collector.On("Add", mock.Anything, mock.MatchedBy(func(e log.Entry) bool {
		return e.Status == log.EntryWarning &&
			e.Tool == "replace" &&
			e.Operation == "commit" &&
			e.FilesProcessed == 2 &&
			e.ErrorMessage == "1 item(s) failed, 1 director(ies) unreadable"
	})).Once()

	report, err := Run(testContext(), Options{
		FS:        faulty,
		Root:      root,
		RootPath:  dir,
		Walk:      walk.DefaultOptions(),
		Transform: &transform.Replace{Search: "foo", Replace: "bar"},
		Mode:      status.ModeCommit,
		Collector: collector,
		Logger:    quietLogger(),
	})
	require.NoError(t, err, "item faults should not fail the run")

	assert.Equal(t, status.Summary{Total: 3, Success: 2, Error: 1}, report.Summary())
	require.Len(t, report.Faults, 1)
	assert.ErrorIs(t, report.Faults[0], fault.ErrEnumeration)
	assert.True(t, report.HasProblems())

	snap := testutils.Snapshot(t, dir)
	assert.Equal(t, "foo", snap["a.txt"], "failed item should be untouched")
	assert.Equal(t, "bar", snap["b.txt"])
	assert.Equal(t, "bar", snap["open/c.txt"])

	collector.AssertExpectations(t)
}

func TestRun_ResultsFollowDiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{
		"a.txt":     "foo",
		"b.txt":     "foo",
		"sub/c.txt": "foo",
		"sub/d.txt": "foo",
	})
	fsys, root := testutils.OpenRoot(t, dir)

	found, err := walk.Walk(testContext(), fsys, root, walk.DefaultOptions())
	require.NoError(t, err)

	reporter := &MockReporter{}
	reporter.On("StartOperation", mock.Anything, 4).Once()
	reporter.On("TrackItem", mock.Anything, mock.Anything).Times(4)
	reporter.On("FinishOperation", mock.Anything).Once()

	report, err := Run(testContext(), Options{
		FS:        fsys,
		Root:      root,
		Walk:      walk.DefaultOptions(),
		Transform: &transform.Replace{Search: "foo", Replace: "bar"},
		Mode:      status.ModePreview,
		Reporter:  reporter,
		Logger:    quietLogger(),
	})
	require.NoError(t, err)

	require.Len(t, report.Results, len(found.Entries))
	for i, e := range found.Entries {
		assert.Equal(t, e.Path, report.Results[i].Path, "result %d should follow discovery order", i)
	}
	reporter.AssertExpectations(t)
}

func TestRun_PreviewCommitParity(t *testing.T) {
	files := map[string]string{
		"a.txt":      "foo",
		"b.txt":      "bar",
		"keep.md":    "foo",
		"sub/c.txt":  "foofoo",
		"sub/d.json": "{}",
	}

	run := func(mode status.Mode) (*status.Report, map[string]string, map[string]string) {
		dir := t.TempDir()
		testutils.WriteTree(t, dir, files)
		before := testutils.Snapshot(t, dir)
		fsys, root := testutils.OpenRoot(t, dir)

		report, err := Run(testContext(), Options{
			FS:        fsys,
			Root:      root,
			Walk:      walk.DefaultOptions(),
			Transform: &transform.Replace{Search: "foo", Replace: "baz"},
			Mode:      mode,
			Logger:    quietLogger(),
		})
		require.NoError(t, err)
		return report, before, testutils.Snapshot(t, dir)
	}

	preview, before, afterPreview := run(status.ModePreview)
	commit, _, afterCommit := run(status.ModeCommit)

	assert.Equal(t, before, afterPreview, "preview should not change the tree")
	assert.NotEqual(t, before, afterCommit, "commit should change the tree")

	previewStatus := map[string]status.Status{}
	for _, r := range preview.Results {
		previewStatus[r.Path] = r.Status
	}
	commitStatus := map[string]status.Status{}
	for _, r := range commit.Results {
		commitStatus[r.Path] = r.Status
	}
	assert.Equal(t, previewStatus, commitStatus, "statuses should match between modes")
}

func TestRun_RerunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{
		"one.txt":     "",
		"two.txt":     "",
		"sub/3.txt":   "",
		"sub/four.md": "",
	})
	fsys, root := testutils.OpenRoot(t, dir)

	rule := &transform.Rename{Rule: transform.RuleCase, Case: transform.CaseUpper}
	opts := Options{
		FS:        fsys,
		Root:      root,
		Walk:      walk.Options{Recursive: true, IncludeFiles: true, IncludeDirectories: true},
		Transform: rule,
		Mode:      status.ModeCommit,
		Logger:    quietLogger(),
	}

	first, err := Run(testContext(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Summary().Error)
	assert.Positive(t, first.Summary().Success)

	second, err := Run(testContext(), opts)
	require.NoError(t, err)
	assert.Equal(t, second.Summary().Total, second.Summary().Skipped, "second run should skip everything")
}

func TestRun_NumberingRestartsEachRun(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{"a.txt": "", "b.txt": ""})
	fsys, root := testutils.OpenRoot(t, dir)

	rule := &transform.Rename{Rule: transform.RuleNumber, Prefix: "img", Start: 1, Width: 3}
	opts := Options{
		FS:        fsys,
		Root:      root,
		Walk:      walk.DefaultOptions(),
		Transform: rule,
		Mode:      status.ModePreview,
		Logger:    quietLogger(),
	}

	for i := 0; i < 2; i++ {
		report, err := Run(testContext(), opts)
		require.NoError(t, err)

		var got []string
		for _, r := range report.Results {
			got = append(got, r.New)
		}
		assert.ElementsMatch(t, []string{"img_001.txt", "img_002.txt"}, got, "run %d should number from the start", i)
	}
}

func TestRun_CancelledBetweenItems(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{
		"a.txt": "foo",
		"b.txt": "foo",
		"c.txt": "foo",
	})
	fsys, root := testutils.OpenRoot(t, dir)

	ctx, cancel := context.WithCancel(testContext())
	defer cancel()

	collector := log.NewMemoryCollector()
	report, err := Run(ctx, Options{
		FS:        fsys,
		Root:      root,
		Walk:      walk.DefaultOptions(),
		Transform: &cancelAfter{Transform: &transform.Replace{Search: "foo", Replace: "bar"}, n: 1, cancel: cancel},
		Mode:      status.ModeCommit,
		Collector: collector,
		Logger:    quietLogger(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	require.NotNil(t, report, "partial report should be returned")
	require.Len(t, report.Results, 1)
	assert.Equal(t, status.StatusSuccess, report.Results[0].Status)

	changed := 0
	for _, content := range testutils.Snapshot(t, dir) {
		if content == "bar" {
			changed++
		}
	}
	assert.Equal(t, 1, changed, "the committed item should stay committed")

	entries := collector.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, log.EntryError, entries[0].Status)
	assert.Contains(t, entries[0].ErrorMessage, "context canceled")
}

func TestRun_PrintsToLogger(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string]string{"a.txt": "foo"})
	fsys, root := testutils.OpenRoot(t, dir)

	buf := &bytes.Buffer{}
	ctx := log.NewContext(testContext(), log.New(buf, zerolog.Nop()))

	_, err := Run(ctx, Options{
		FS:        fsys,
		Root:      root,
		RootPath:  dir,
		Walk:      walk.DefaultOptions(),
		Transform: &transform.Replace{Search: "foo", Replace: "bar"},
		Mode:      status.ModePreview,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "replace")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "total")
}

func TestRunLogEntry(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &status.Report{
		Tool:      "bom",
		Mode:      status.ModeCommit,
		Root:      "/data",
		StartedAt: started,
		Duration:  2 * time.Second,
		Results: []status.ItemResult{
			{Status: status.StatusSuccess},
			{Status: status.StatusSkipped},
		},
	}

	e := runLogEntry(report, nil)
	assert.Equal(t, log.Entry{
		Tool:           "bom",
		Operation:      "commit",
		Status:         log.EntrySuccess,
		Details:        "root=/data, total=2, success=1, skipped=1, error=0",
		Duration:       2 * time.Second,
		FilesProcessed: 1,
		Timestamp:      started,
	}, e)
}
