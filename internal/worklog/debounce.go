/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package worklog

import (
    "context"
    "sync"
    "time"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// SettleFunc receives the outcome of a search that was still current when it
// finished.
type SettleFunc func(res *domain.SearchResult, err error)

// Debouncer coalesces rapid successive triggers into one effective search.
// A trigger arriving inside the pending window cancels the not-yet-started
// invocation outright. A trigger arriving while a search is in flight cancels
// that search's context and supersedes its settle callback, so a stale search
// can never overwrite a newer result.
type Debouncer struct {
    engine *Engine
    delay  time.Duration

    mu     sync.Mutex
    gen    uint64
    timer  *time.Timer
    cancel context.CancelFunc
}

func NewDebouncer(engine *Engine, delay time.Duration) *Debouncer {
    if delay <= 0 { delay = 500 * time.Millisecond }
    return &Debouncer{engine: engine, delay: delay}
}

// Trigger schedules a search after the debounce delay, replacing any pending
// or in-flight one. onProgress and settle are only invoked while this trigger
// is still the current generation.
func (d *Debouncer) Trigger(ctx context.Context, req domain.SearchRequest, onProgress ProgressFunc, settle SettleFunc) {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.gen++
    gen := d.gen
    if d.timer != nil { d.timer.Stop(); d.timer = nil }
    if d.cancel != nil { d.cancel(); d.cancel = nil }

    d.timer = time.AfterFunc(d.delay, func() { d.run(ctx, gen, req, onProgress, settle) })
}

// Stop cancels any pending window and any in-flight search.
func (d *Debouncer) Stop() {
    d.mu.Lock()
    defer d.mu.Unlock()
    d.gen++
    if d.timer != nil { d.timer.Stop(); d.timer = nil }
    if d.cancel != nil { d.cancel(); d.cancel = nil }
}

func (d *Debouncer) run(ctx context.Context, gen uint64, req domain.SearchRequest, onProgress ProgressFunc, settle SettleFunc) {
    d.mu.Lock()
    if gen != d.gen {
        d.mu.Unlock()
        return
    }
    sctx, cancel := context.WithCancel(ctx)
    d.cancel = cancel
    d.mu.Unlock()
    defer cancel()

    progress := onProgress
    if progress != nil {
        progress = func(added []domain.Worklog, issues map[string]domain.Issue) {
            if d.current(gen) { onProgress(added, issues) }
        }
    }
    res, err := d.engine.Search(sctx, req, progress)
    if !d.current(gen) { return }
    if settle != nil { settle(res, err) }
}

func (d *Debouncer) current(gen uint64) bool {
    d.mu.Lock()
    defer d.mu.Unlock()
    return gen == d.gen
}
