package status

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/fault"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/hostfs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []ItemResult {
	base := ItemResult{Kind: hostfs.KindFile}
	a, b, c, d := base, base, base, base

	a.Name, a.Path, a.Original, a.New, a.Count = "a.txt", "a.txt", "a.txt", "x_a.txt", 1
	b.Name, b.Path = "b.txt", "sub/b.txt"
	c.Name, c.Path, c.Count = "c.txt", "sub/c.txt", 3
	d.Name, d.Path = "d.txt", "d.txt"

	return []ItemResult{
		Succeeded(a, "renamed"),
		Skipped(b, "name unchanged"),
		Succeeded(c, "3 matches replaced"),
		Failed(d, fault.New(fault.KindWrite, "d.txt", os.ErrPermission)),
	}
}

func TestSummarize(t *testing.T) {
	results := sampleResults()

	assert.Equal(t, Summary{Total: 4, Success: 2, Skipped: 1, Error: 1}, Summarize(results))
	assert.Equal(t, Summary{}, Summarize(nil))

	report := &Report{Results: results}
	assert.Equal(t, 2, report.Processed())
	assert.True(t, report.HasProblems())

	report.Results = report.Results[:2]
	assert.Equal(t, Summary{Total: 2, Success: 1, Skipped: 1}, report.Summary(), "summary follows the results")
	assert.False(t, report.HasProblems())

	report.Faults = append(report.Faults, fault.New(fault.KindEnumeration, "locked", os.ErrPermission))
	assert.True(t, report.HasProblems())
}

func TestResultBuilders(t *testing.T) {
	failed := Failed(ItemResult{Path: "a"}, os.ErrPermission)
	assert.Equal(t, StatusError, failed.Status)
	assert.Equal(t, "permission denied", failed.Message)
	assert.ErrorIs(t, failed.Err, os.ErrPermission)

	skipped := Skipped(ItemResult{Path: "a"}, "no matches")
	assert.Equal(t, StatusSkipped, skipped.Status)
	assert.Nil(t, skipped.Err)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModePreview},
		{in: "preview", want: ModePreview},
		{in: "COMMIT", want: ModeCommit},
		{in: "dry-run", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			assert.True(t, fault.IsConfiguration(err))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResults()))

	want := strings.Join([]string{
		"name,path,status,count,message",
		"a.txt,a.txt,success,1,renamed",
		"b.txt,sub/b.txt,skipped,0,name unchanged",
		"c.txt,sub/c.txt,success,3,3 matches replaced",
		"d.txt,d.txt,error,0,writing file d.txt: permission denied",
		"",
		"total,4",
		"success,2",
		"skipped,1",
		"error,1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_QuotesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []ItemResult{
		Failed(ItemResult{Name: "a,b.txt", Path: "a,b.txt"}, os.ErrNotExist),
	}))

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, `"a,b.txt","a,b.txt",error,0,file does not exist`, lines[1])
}

func TestFormatItemLine(t *testing.T) {
	color.NoColor = true
	results := sampleResults()

	tests := []struct {
		name     string
		result   ItemResult
		mode     Mode
		contains []string
	}{
		{
			name:     "preview_rename",
			result:   results[0],
			mode:     ModePreview,
			contains: []string{"•", "a.txt", "file", "planned", "a.txt → x_a.txt"},
		},
		{
			name:     "commit_rename",
			result:   results[0],
			mode:     ModeCommit,
			contains: []string{"✓", "success", "a.txt → x_a.txt"},
		},
		{
			name:     "skipped",
			result:   results[1],
			mode:     ModeCommit,
			contains: []string{"-", "sub/b.txt", "skipped"},
		},
		{
			name:     "matches",
			result:   results[2],
			mode:     ModeCommit,
			contains: []string{"3 matches"},
		},
		{
			name:     "error",
			result:   results[3],
			mode:     ModeCommit,
			contains: []string{"✗", "error", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := FormatItemLine(tt.result, tt.mode)
			assert.True(t, strings.HasPrefix(line, "    "), "should be indented")
			for _, want := range tt.contains {
				assert.Contains(t, line, want)
			}
		})
	}
}

func TestDefaultFileFormatter(t *testing.T) {
	f := NewDefaultFileFormatter()
	results := sampleResults()

	assert.Equal(t, "🔍 Planned a.txt (a.txt → x_a.txt)", f.FormatItem(results[0], ModePreview))
	assert.Equal(t, "📝 Modified a.txt (a.txt → x_a.txt)", f.FormatItem(results[0], ModeCommit))
	assert.Equal(t, "👍 Unchanged sub/b.txt", f.FormatItem(results[1], ModeCommit))
	assert.Equal(t, "📝 Modified sub/c.txt (3 matches)", f.FormatItem(results[2], ModeCommit))
	assert.Contains(t, f.FormatItem(results[3], ModeCommit), "❌ Failed d.txt")

	assert.Equal(t, "⏳ Progress: 1/4 (25%)", f.FormatProgress(1, 4))
	assert.Equal(t, "✅ Progress: 4/4 (100%)", f.FormatProgress(4, 4))
	assert.Equal(t, "✅ Progress: 0/0 (0%)", f.FormatProgress(0, 0))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	p := NewProgress(ModeCommit)
	p.StartOperation(ctx, 2)
	for _, r := range sampleResults()[2:] {
		p.TrackItem(ctx, r)
	}
	p.FinishOperation(ctx)

	out := buf.String()
	assert.Contains(t, out, "Progress: 0/2")
	assert.Contains(t, out, `"path":"sub/c.txt"`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "Progress: 2/2")
}
