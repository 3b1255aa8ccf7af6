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

package status

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// 📈 StatusReporter tracks item results and reports progress
type StatusReporter interface {
	StartOperation(ctx context.Context, total int)
	TrackItem(ctx context.Context, r ItemResult)
	FinishOperation(ctx context.Context)
}

// 🔧 Progress implements StatusReporter by writing debug lines to the context logger
type Progress struct {
	formatter FileFormatter
	mode      Mode

	mu        sync.Mutex
	total     int
	processed int
}

var _ StatusReporter = (*Progress)(nil)

// 🏭 NewProgress creates a progress reporter for a run in mode
func NewProgress(mode Mode) *Progress {
	return &Progress{
		formatter: NewDefaultFileFormatter(),
		mode:      mode,
	}
}

func (p *Progress) StartOperation(ctx context.Context, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.processed = 0
	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(p.formatter.FormatProgress(0, total))
}

func (p *Progress) TrackItem(ctx context.Context, r ItemResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed++
	logger := zerolog.Ctx(ctx)

	event := logger.Debug()
	if r.Status == StatusError {
		event = logger.Warn().Err(r.Err)
	}
	event.
		Str("path", r.Path).
		Str("status", string(r.Status)).
		Int("processed", p.processed).
		Int("total", p.total).
		Msg(p.formatter.FormatItem(r, p.mode))
}

func (p *Progress) FinishOperation(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", p.processed).
		Int("total", p.total).
		Msg(p.formatter.FormatProgress(p.processed, p.total))
}
