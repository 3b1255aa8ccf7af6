package operation

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/log"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/testutils"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/transform"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/walk"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replaceJob(t *testing.T, name, dir string, collector log.Collector, logger *log.Logger) Job {
	t.Helper()
	fsys, root := testutils.OpenRoot(t, dir)
	return Job{
		Name: name,
		Options: Options{
			FS:        fsys,
			Root:      root,
			RootPath:  dir,
			Walk:      walk.DefaultOptions(),
			Transform: &transform.Replace{Search: "foo", Replace: "bar"},
			Mode:      status.ModeCommit,
			Collector: collector,
			Logger:    logger,
		},
	}
}

func TestRunner_RunAll(t *testing.T) {
	tests := []struct {
		name     string
		parallel int
	}{
		{name: "sequential", parallel: 1},
		{name: "zero_means_sequential", parallel: 0},
		{name: "parallel", parallel: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			dirs := []string{filepath.Join(base, "one"), filepath.Join(base, "two"), filepath.Join(base, "three")}
			for _, d := range dirs {
				testutils.WriteTree(t, d, map[string]string{"a.txt": "foo", "b.txt": "nope"})
			}

			collector := log.NewMemoryCollector()
			var jobs []Job
			for _, d := range dirs {
				jobs = append(jobs, replaceJob(t, filepath.Base(d), d, collector, quietLogger()))
			}

			results, err := NewRunner(tt.parallel).RunAll(testContext(), jobs)
			require.NoError(t, err)
			require.Len(t, results, 3)

			for i, res := range results {
				assert.Equal(t, jobs[i].Name, res.Name, "results should follow job order")
				require.NoError(t, res.Err)
				assert.Equal(t, status.Summary{Total: 2, Success: 1, Skipped: 1}, res.Report.Summary())
				assert.Equal(t, "bar", testutils.Snapshot(t, dirs[i])["a.txt"])
			}
			assert.Len(t, collector.Entries(), 3, "every job should log one entry")
		})
	}
}

func TestRunner_OverlappingRootsRejectedInParallel(t *testing.T) {
	base := t.TempDir()
	testutils.WriteTree(t, base, map[string]string{"sub/a.txt": "foo"})
	sub := filepath.Join(base, "sub")

	jobs := []Job{
		replaceJob(t, "outer", base, nil, quietLogger()),
		replaceJob(t, "inner", sub, nil, quietLogger()),
	}

	_, err := NewRunner(2).RunAll(testContext(), jobs)
	require.Error(t, err)
	assert.True(t, fault.IsConfiguration(err))
	assert.Contains(t, err.Error(), "outer and inner")
	assert.Equal(t, "foo", testutils.Snapshot(t, base)["sub/a.txt"], "nothing should run")

	// the same jobs are fine one after another
	results, err := NewRunner(1).RunAll(testContext(), jobs)
	require.NoError(t, err)
	assert.Equal(t, 1, results[0].Report.Summary().Success)
	assert.Equal(t, 1, results[1].Report.Summary().Skipped, "second job sees the committed change")
}

func TestRunner_FailingJobDoesNotStopOthers(t *testing.T) {
	good := t.TempDir()
	testutils.WriteTree(t, good, map[string]string{"a.txt": "foo"})

	bad := replaceJob(t, "bad", t.TempDir(), nil, quietLogger())
	bad.Options.Transform = &transform.Replace{}

	results, err := NewRunner(1).RunAll(testContext(), []Job{bad, replaceJob(t, "good", good, nil, quietLogger())})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "job bad")
	assert.True(t, fault.IsConfiguration(err))

	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.Nil(t, results[0].Report)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "bar", testutils.Snapshot(t, good)["a.txt"])
}

func TestRunner_ParallelOutputIsNotInterleaved(t *testing.T) {
	base := t.TempDir()
	testutils.WriteTree(t, base, map[string]string{
		"one/a.txt": "foo",
		"one/b.txt": "foo",
		"two/c.txt": "foo",
		"two/d.txt": "foo",
	})

	color.NoColor = true
	defer func() { color.NoColor = false }()

	buf := &bytes.Buffer{}
	shared := log.New(buf, zerolog.Nop())
	jobs := []Job{
		replaceJob(t, "one", filepath.Join(base, "one"), nil, shared),
		replaceJob(t, "two", filepath.Join(base, "two"), nil, shared),
	}

	_, err := NewRunner(2).RunAll(context.Background(), jobs)
	require.NoError(t, err)

	// each job block starts with its header and ends with its summary
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "◆ replace • commit"), "each job prints its own header")
	blocks := strings.Split(out, "◆ replace • commit")
	require.Len(t, blocks, 3)
	for _, block := range blocks[1:] {
		assert.Equal(t, 2, strings.Count(block, "✓"), "a block holds the two items of one job")
		assert.Contains(t, block, "total")
	}
}

func TestOverlaps(t *testing.T) {
	assert.True(t, overlaps("/a", "/a"))
	assert.True(t, overlaps("/a", "/a/b"))
	assert.True(t, overlaps("/a/b", "/a"))
	assert.False(t, overlaps("/a", "/ab"))
	assert.False(t, overlaps("/a/b", "/a/c"))
}
