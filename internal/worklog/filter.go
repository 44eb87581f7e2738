/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package worklog

import (
    "time"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// window is the resolved date filter for one search invocation.
type window struct {
    start, end       time.Time
    hasStart, hasEnd bool
}

func (w window) contains(t time.Time) bool {
    if w.hasStart && t.Before(w.start) { return false }
    if w.hasEnd && t.After(w.end) { return false }
    return true
}

// filterWorklogs applies the second, per-entry filtering pass. JQL filters
// issues, not individual worklogs: an issue can carry entries from many
// authors and dates, so each entry is checked again here. Survivors are
// stamped with the parent issue ID, which the per-issue payload does not
// carry in a batch-usable form.
func filterWorklogs(wls []domain.Worklog, me domain.Identity, w window, issueID string) []domain.Worklog {
    out := make([]domain.Worklog, 0, len(wls))
    for _, wl := range wls {
        if !wl.Author.Equal(me) { continue }
        if !w.contains(wl.Started) { continue }
        wl.IssueID = issueID
        out = append(out, wl)
    }
    return out
}
