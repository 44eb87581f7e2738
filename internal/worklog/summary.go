/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package worklog

import (
    "fmt"
    "sort"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// DayGroup is one dashboard row group: a UTC calendar day with its worklogs
// (most recent first) and the day's logged total.
type DayGroup struct {
    Date         string           `json:"date"`
    Worklogs     []domain.Worklog `json:"worklogs"`
    TotalSeconds int              `json:"totalSeconds"`
}

type Summary struct {
    TotalWorklogs int        `json:"totalWorklogs"`
    TotalSeconds  int        `json:"totalSeconds"`
    UniqueIssues  int        `json:"uniqueIssues"`
    Days          []DayGroup `json:"days"`
}

// Summarize builds the dashboard aggregates from a settled result: day
// grouping (most recent day first), time totals and the distinct issue count.
func Summarize(res *domain.SearchResult) Summary {
    s := Summary{TotalWorklogs: len(res.Worklogs)}
    byDay := map[string][]domain.Worklog{}
    issues := map[string]struct{}{}
    for _, wl := range res.Worklogs {
        s.TotalSeconds += wl.TimeSpentSeconds
        issues[wl.IssueID] = struct{}{}
        day := wl.Started.UTC().Format(domain.DateLayout)
        byDay[day] = append(byDay[day], wl)
    }
    s.UniqueIssues = len(issues)
    days := make([]string, 0, len(byDay))
    for d := range byDay { days = append(days, d) }
    sort.Sort(sort.Reverse(sort.StringSlice(days)))
    for _, d := range days {
        wls := byDay[d]
        domain.SortWorklogs(wls)
        total := 0
        for _, wl := range wls { total += wl.TimeSpentSeconds }
        s.Days = append(s.Days, DayGroup{Date: d, Worklogs: wls, TotalSeconds: total})
    }
    return s
}

// FormatDuration renders seconds the way the dashboard shows them: "45m",
// "2h", "2h 30m".
func FormatDuration(seconds int) string {
    hours := seconds / 3600
    minutes := (seconds % 3600) / 60
    if hours == 0 { return fmt.Sprintf("%dm", minutes) }
    if minutes == 0 { return fmt.Sprintf("%dh", hours) }
    return fmt.Sprintf("%dh %dm", hours, minutes)
}
