/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package worklog

import (
    "sync"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// Merger accumulates filtered worklogs from racing fan-out completions into
// one consistent collection. Adds are idempotent keyed by worklog ID, so a
// retried batch cannot duplicate entries. All mutation happens under the
// mutex; fan-out goroutines call Add concurrently.
type Merger struct {
    mu     sync.Mutex
    seen   map[string]struct{}
    wls    []domain.Worklog
    issues map[string]domain.Issue
}

func NewMerger() *Merger {
    return &Merger{seen: map[string]struct{}{}, issues: map[string]domain.Issue{}}
}

// TrackIssue records a discovered issue so the final issue map covers every
// discovery row, including issues that contribute zero worklogs.
func (m *Merger) TrackIssue(iss domain.Issue) {
    m.mu.Lock()
    defer m.mu.Unlock()
    m.issues[iss.Key] = iss
}

// Add merges a filtered batch and returns the entries that were actually new.
// Re-adding a batch is a no-op.
func (m *Merger) Add(wls []domain.Worklog) []domain.Worklog {
    m.mu.Lock()
    defer m.mu.Unlock()
    added := make([]domain.Worklog, 0, len(wls))
    for _, wl := range wls {
        if _, dup := m.seen[wl.ID]; dup { continue }
        m.seen[wl.ID] = struct{}{}
        m.wls = append(m.wls, wl)
        added = append(added, wl)
    }
    return added
}

// Result snapshots the authoritative merged state: unique worklogs sorted by
// Started descending plus the issue map. The snapshot equals the union of
// everything Add ever returned.
func (m *Merger) Result() *domain.SearchResult {
    m.mu.Lock()
    defer m.mu.Unlock()
    out := &domain.SearchResult{
        Worklogs: make([]domain.Worklog, len(m.wls)),
        Issues:   make(map[string]domain.Issue, len(m.issues)),
    }
    copy(out.Worklogs, m.wls)
    for k, v := range m.issues { out.Issues[k] = v }
    domain.SortWorklogs(out.Worklogs)
    return out
}
