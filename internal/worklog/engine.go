/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package worklog

import (
    "context"

    "github.com/rs/zerolog"
    "golang.org/x/sync/errgroup"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// Client is the narrow upstream surface the engine consumes.
type Client interface {
    Myself(ctx context.Context) (domain.User, error)
    SearchIssues(ctx context.Context, jql string, fields []string, startAt, max int) ([]domain.IssueHit, error)
    IssueWorklogs(ctx context.Context, issueKey string) ([]domain.Worklog, error)
}

// ProgressFunc receives just-added worklogs with their owning issues before
// the search settles. Calls may arrive in any order; the final result is the
// union of every batch.
type ProgressFunc func(added []domain.Worklog, issues map[string]domain.Issue)

type Engine struct {
    client            Client
    log               zerolog.Logger
    defaultWindowDays int
    defaultPageSize   int
}

func NewEngine(client Client, log zerolog.Logger, defaultWindowDays, defaultPageSize int) *Engine {
    if defaultWindowDays <= 0 { defaultWindowDays = 30 }
    if defaultPageSize <= 0 { defaultPageSize = 50 }
    return &Engine{client: client, log: log, defaultWindowDays: defaultWindowDays, defaultPageSize: defaultPageSize}
}

// Search runs one full aggregation: identity lookup, issue discovery, fan-out
// worklog fetches, per-entry filtering and incremental merge. A per-issue
// fetch failure is logged and contributes nothing; only identity lookup and
// discovery failures fail the search.
func (e *Engine) Search(ctx context.Context, req domain.SearchRequest, onProgress ProgressFunc) (*domain.SearchResult, error) {
    start, end, hasStart, hasEnd, err := req.Window()
    if err != nil { return nil, err }
    w := window{start: start, end: end, hasStart: hasStart, hasEnd: hasEnd}
    if hasStart && hasEnd && start.After(end) {
        // empty window: settle immediately with nothing
        return &domain.SearchResult{Worklogs: []domain.Worklog{}, Issues: map[string]domain.Issue{}}, nil
    }

    me, err := e.client.Myself(ctx)
    if err != nil { return nil, &domain.AuthError{Err: err} }

    jql := BuildJQL(req, e.defaultWindowDays)
    max := req.MaxResults
    if max <= 0 { max = e.defaultPageSize }
    hits, err := e.client.SearchIssues(ctx, jql, DiscoveryFields, req.StartAt, max)
    if err != nil { return nil, &domain.DiscoveryError{Err: err} }
    e.log.Debug().Str("jql", jql).Int("issues", len(hits)).Msg("discovery done")

    merger := NewMerger()
    for _, h := range hits { merger.TrackIssue(h.Issue) }

    g, gctx := errgroup.WithContext(ctx)
    for _, h := range hits {
        if h.WorklogTotal <= 0 { continue }
        h := h
        g.Go(func() error {
            wls, ferr := e.client.IssueWorklogs(gctx, h.Issue.Key)
            if ferr != nil {
                // degrade: this issue contributes nothing, the search goes on
                fe := &domain.FetchError{IssueKey: h.Issue.Key, Err: ferr}
                e.log.Warn().Err(fe).Str("issue", h.Issue.Key).Msg("worklog fetch failed, skipping issue")
                return nil
            }
            kept := filterWorklogs(wls, me.Identity, w, h.Issue.ID)
            if len(kept) == 0 { return nil }
            added := merger.Add(kept)
            if onProgress != nil && len(added) > 0 {
                onProgress(added, map[string]domain.Issue{h.Issue.Key: h.Issue})
            }
            return nil
        })
    }
    _ = g.Wait() // fan-out goroutines never return errors

    if err := ctx.Err(); err != nil { return nil, err }
    return merger.Result(), nil
}
