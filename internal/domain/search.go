/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package domain

import (
    "fmt"
    "sort"
    "time"
)

// DateLayout is the calendar-date form accepted in search requests.
const DateLayout = "2006-01-02"

// SearchRequest is immutable per search invocation. Dates are inclusive UTC
// calendar days; StartAt pages issue discovery, not worklogs.
type SearchRequest struct {
    StartDate   string   `form:"startDate" json:"startDate,omitempty"`
    EndDate     string   `form:"endDate" json:"endDate,omitempty"`
    IssueKey    string   `form:"issueKey" json:"issueKey,omitempty"`
    ProjectKey  string   `form:"projectKey" json:"projectKey,omitempty"`
    ProjectKeys []string `form:"projectKeys" json:"projectKeys,omitempty"`
    Author      string   `form:"author" json:"author,omitempty"` // inert: scope is always the session identity
    MaxResults  int      `form:"maxResults" json:"maxResults,omitempty"`
    StartAt     int      `form:"startAt" json:"startAt,omitempty"`
}

// Window resolves the date bounds to instants: start at 00:00:00.000 UTC and
// end at 23:59:59.999 UTC of their respective days.
func (r SearchRequest) Window() (start, end time.Time, hasStart, hasEnd bool, err error) {
    if r.StartDate != "" {
        t, perr := time.ParseInLocation(DateLayout, r.StartDate, time.UTC)
        if perr != nil { return start, end, false, false, fmt.Errorf("invalid startDate %q: %w", r.StartDate, perr) }
        start, hasStart = t, true
    }
    if r.EndDate != "" {
        t, perr := time.ParseInLocation(DateLayout, r.EndDate, time.UTC)
        if perr != nil { return start, end, false, false, fmt.Errorf("invalid endDate %q: %w", r.EndDate, perr) }
        end, hasEnd = t.Add(24*time.Hour-time.Millisecond), true
    }
    return start, end, hasStart, hasEnd, nil
}

// Degenerate reports an empty window (start after end). Such a search yields
// zero worklogs without touching the upstream.
func (r SearchRequest) Degenerate() bool {
    s, e, hs, he, err := r.Window()
    if err != nil || !hs || !he { return false }
    return s.After(e)
}

// SearchResult is the settled output of one search: worklogs sorted by
// Started descending with unique IDs, and every discovered issue keyed by
// issue key.
type SearchResult struct {
    Worklogs []Worklog        `json:"worklogs"`
    Issues   map[string]Issue `json:"issues"`
}

// IssueFor resolves a worklog's owning issue by upstream ID, degrading to the
// UnknownIssue placeholder when discovery data is incomplete.
func (r *SearchResult) IssueFor(w Worklog) Issue {
    for _, iss := range r.Issues {
        if iss.ID == w.IssueID { return iss }
    }
    return UnknownIssue(w.IssueID)
}

// SortWorklogs orders entries by Started descending, stable on ties.
func SortWorklogs(wls []Worklog) {
    sort.SliceStable(wls, func(i, j int) bool { return wls[i].Started.After(wls[j].Started) })
}
