/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package worklog

import (
    "fmt"
    "strings"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// DiscoveryFields is the field selection for issue discovery. The worklog
// field carries the advisory count used to decide fan-out.
var DiscoveryFields = []string{"key", "summary", "issuetype", "project", "status", "assignee", "worklog"}

// BuildJQL renders a search request as a JQL string. Every clause ANDs onto
// the unconditional author scope. Without a start date the window defaults to
// the last defaultWindowDays days. ProjectKey and ProjectKeys coalesce into a
// single de-duplicated project constraint; two separate project clauses would
// intersect and usually match nothing.
func BuildJQL(req domain.SearchRequest, defaultWindowDays int) string {
    var b strings.Builder
    b.WriteString("worklogAuthor = currentUser()")

    if req.StartDate != "" {
        fmt.Fprintf(&b, " AND worklogDate >= %q", req.StartDate)
    } else {
        if defaultWindowDays <= 0 { defaultWindowDays = 30 }
        fmt.Fprintf(&b, " AND worklogDate >= -%dd", defaultWindowDays)
    }
    if req.EndDate != "" {
        fmt.Fprintf(&b, " AND worklogDate <= %q", req.EndDate)
    }
    if req.IssueKey != "" {
        fmt.Fprintf(&b, " AND key = %q", req.IssueKey)
    }
    if keys := projectKeys(req); len(keys) == 1 {
        fmt.Fprintf(&b, " AND project = %q", keys[0])
    } else if len(keys) > 1 {
        quoted := make([]string, 0, len(keys))
        for _, k := range keys { quoted = append(quoted, fmt.Sprintf("%q", k)) }
        fmt.Fprintf(&b, " AND project in (%s)", strings.Join(quoted, ", "))
    }
    return b.String()
}

// projectKeys merges the singular and plural project filters into one ordered
// de-duplicated set.
func projectKeys(req domain.SearchRequest) []string {
    var out []string
    seen := map[string]struct{}{}
    add := func(k string) {
        k = strings.TrimSpace(k)
        if k == "" { return }
        if _, ok := seen[k]; ok { return }
        seen[k] = struct{}{}
        out = append(out, k)
    }
    add(req.ProjectKey)
    for _, k := range req.ProjectKeys { add(k) }
    return out
}
