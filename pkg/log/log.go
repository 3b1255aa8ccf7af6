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

package log

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/mshtwtnb0219/DevUtilityBox/pkg/status"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📦 RunInfo describes a run for logging
type RunInfo struct {
	Tool string      // Transform name
	Root string      // Walk root
	Mode status.Mode // Preview or commit
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunInfo
	items      int
}

// 🏭 New creates a new logger writing user output to console and records to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// WithConsole returns a logger sharing l's records but printing to console
func (l *Logger) WithConsole(console io.Writer) *Logger {
	return New(console, l.zlog)
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a silent one
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 StartRun prints the run header
func (l *Logger) StartRun(ctx context.Context, run RunInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &run
	l.items = 0

	fmt.Fprintf(l.console, "[%s %s]\n",
		run.Mode,
		color.New(color.FgCyan).Sprint(run.Root))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(run.Tool),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(run.Mode))

	l.zlog.Info().
		Str("tool", run.Tool).
		Str("root", run.Root).
		Str("mode", string(run.Mode)).
		Msg("starting run")
}

// 📝 LogItemResult prints one item result
func (l *Logger) LogItemResult(ctx context.Context, r status.ItemResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	mode := status.ModeCommit
	if l.currentRun != nil {
		mode = l.currentRun.Mode
	}
	l.items++

	fmt.Fprintln(l.console, status.FormatItemLine(r, mode))

	event := l.zlog.Info()
	if r.Status == status.StatusError {
		event = l.zlog.Error().Err(r.Err)
	}
	event.
		Str("path", r.Path).
		Str("kind", r.Kind.String()).
		Str("status", string(r.Status)).
		Str("original", r.Original).
		Str("new", r.New).
		Int("count", r.Count).
		Msg(r.Message)
}

// 📝 EndRun prints the run summary table
func (l *Logger) EndRun(ctx context.Context, report *status.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := report.Summary()
	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, SummaryTable(summary))

	for _, f := range report.Faults {
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(f.Error()))
	}

	l.zlog.Info().
		Str("tool", report.Tool).
		Int("total", summary.Total).
		Int("success", summary.Success).
		Int("skipped", summary.Skipped).
		Int("error", summary.Error).
		Int("faults", len(report.Faults)).
		Dur("duration", report.Duration).
		Msg("run complete")

	l.currentRun = nil
	l.items = 0
}

// 📊 SummaryTable renders run totals as a table
func SummaryTable(s status.Summary) string {
	data := pterm.TableData{
		{"total", "success", "skipped", "error"},
		{strconv.Itoa(s.Total), strconv.Itoa(s.Success), strconv.Itoa(s.Skipped), strconv.Itoa(s.Error)},
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Sprintf("total %d, success %d, skipped %d, error %d", s.Total, s.Success, s.Skipped, s.Error)
	}
	return out
}

// 📝 Table prints rows with the first one as header
func (l *Logger) Table(rows [][]string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		l.zlog.Error().Err(err).Msg("rendering table")
		return
	}
	fmt.Fprintln(l.console, out)
}

// 📝 Raw prints text as is
func (l *Logger) Raw(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, text)
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appText := color.New(color.Bold, color.FgCyan).Sprint("devbox")
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
