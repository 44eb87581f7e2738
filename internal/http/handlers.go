/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/shadowfieng/jira-worklog-app/internal/adapters/jira"
    "github.com/shadowfieng/jira-worklog-app/internal/config"
    "github.com/shadowfieng/jira-worklog-app/internal/domain"
    "github.com/shadowfieng/jira-worklog-app/internal/ratelimit"
    "github.com/shadowfieng/jira-worklog-app/internal/worklog"
)

type Handlers struct {
    cfg     config.Config
    log     zerolog.Logger
    limiter *ratelimit.PerKey
    users   *userCache
}

func NewHandlers(cfg config.Config, log zerolog.Logger, limiter *ratelimit.PerKey) *Handlers {
    return &Handlers{cfg: cfg, log: log, limiter: limiter, users: newUserCache(cfg.UserCacheTTL)}
}

// UserCacheSweep exposes the cache sweep for the background job.
func (h *Handlers) UserCacheSweep() int { return h.users.Sweep() }

func (h *Handlers) clientFor(creds jira.Credentials) *jira.Client {
    return jira.NewClient(creds, h.cfg, h.log)
}

// upstreamStatus maps an adapter error to the status the proxy should return.
func upstreamStatus(err error) int {
    var ae *jira.APIError
    if errors.As(err, &ae) { return ae.Status }
    return http.StatusInternalServerError
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ---- auth ----

func (h *Handlers) Login(c *gin.Context) {
    var body struct {
        Email    string `json:"email"`
        APIToken string `json:"apiToken"`
        SiteURL  string `json:"siteUrl"`
    }
    if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.APIToken == "" || body.SiteURL == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "Email, API token, and site URL are required"})
        return
    }
    creds := jira.Credentials{Email: body.Email, APIToken: body.APIToken, SiteURL: strings.TrimRight(body.SiteURL, "/")}
    user, err := h.clientFor(creds).Myself(c.Request.Context())
    if err != nil {
        h.log.Warn().Err(err).Str("site", creds.SiteURL).Msg("login validation failed")
        c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid JIRA credentials or site URL"})
        return
    }
    h.setAuthCookies(c, creds.Email, creds.APIToken, creds.SiteURL)
    h.users.put(creds.Email, user)
    c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *Handlers) Logout(c *gin.Context) {
    if email, err := c.Cookie(cookieEmail); err == nil { h.users.invalidate(email) }
    h.clearAuthCookies(c)
    c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---- thin proxy surface ----

func (h *Handlers) Myself(c *gin.Context) {
    creds := sessionCreds(c)
    if u, ok := h.users.get(creds.Email); ok {
        c.JSON(http.StatusOK, u)
        return
    }
    u, err := h.clientFor(creds).Myself(c.Request.Context())
    if err != nil {
        if jira.IsAuthStatus(err) { h.users.invalidate(creds.Email) }
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to fetch user info from JIRA API"})
        return
    }
    h.users.put(creds.Email, u)
    c.JSON(http.StatusOK, u)
}

func (h *Handlers) SearchIssues(c *gin.Context) {
    creds := sessionCreds(c)
    jql := c.Query("jql")
    var fields []string
    if f := c.Query("fields"); f != "" { fields = strings.Split(f, ",") }
    startAt := intQuery(c, "startAt", 0)
    max := intQuery(c, "maxResults", h.cfg.DefaultPageSize)
    hits, err := h.clientFor(creds).SearchIssues(c.Request.Context(), jql, fields, startAt, max)
    if err != nil {
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to fetch from JIRA API"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"issues": hits})
}

func (h *Handlers) Projects(c *gin.Context) {
    creds := sessionCreds(c)
    projects, err := h.clientFor(creds).Projects(c.Request.Context())
    if err != nil {
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to fetch projects from JIRA API"})
        return
    }
    c.JSON(http.StatusOK, projects)
}

func (h *Handlers) SiteInfo(c *gin.Context) {
    creds := sessionCreds(c)
    c.JSON(http.StatusOK, gin.H{"siteUrl": creds.SiteURL})
}

// ---- worklog pass-through ----

func (h *Handlers) IssueWorklogs(c *gin.Context) {
    issueKey := c.Param("issueKey")
    if !h.limiter.Allow(issueKey) {
        h.log.Warn().Str("issue", issueKey).Msg("worklog request rate limited")
        c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded for this issue"})
        return
    }
    creds := sessionCreds(c)
    wls, err := h.clientFor(creds).IssueWorklogs(c.Request.Context(), issueKey)
    if err != nil {
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to fetch worklog from JIRA API"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"worklogs": wls, "total": len(wls)})
}

type worklogDraftBody struct {
    TimeSpentSeconds int    `json:"timeSpentSeconds" binding:"required"`
    Started          string `json:"started" binding:"required"`
    Comment          string `json:"comment"`
}

func (b worklogDraftBody) draft() (domain.WorklogDraft, error) {
    t, err := time.Parse(time.RFC3339, b.Started)
    if err != nil { return domain.WorklogDraft{}, err }
    return domain.WorklogDraft{TimeSpentSeconds: b.TimeSpentSeconds, Started: t, Comment: b.Comment}, nil
}

func (h *Handlers) CreateWorklog(c *gin.Context) {
    var body worklogDraftBody
    if err := c.ShouldBindJSON(&body); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    d, err := body.draft()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "started must be RFC3339"})
        return
    }
    creds := sessionCreds(c)
    wl, err := h.clientFor(creds).CreateWorklog(c.Request.Context(), c.Param("issueKey"), d)
    if err != nil {
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to create worklog in JIRA API"})
        return
    }
    c.JSON(http.StatusCreated, wl)
}

func (h *Handlers) UpdateWorklog(c *gin.Context) {
    var body worklogDraftBody
    if err := c.ShouldBindJSON(&body); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    d, err := body.draft()
    if err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "started must be RFC3339"})
        return
    }
    creds := sessionCreds(c)
    wl, err := h.clientFor(creds).UpdateWorklog(c.Request.Context(), c.Param("issueKey"), c.Param("worklogId"), d)
    if err != nil {
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to update worklog in JIRA API"})
        return
    }
    c.JSON(http.StatusOK, wl)
}

func (h *Handlers) DeleteWorklog(c *gin.Context) {
    creds := sessionCreds(c)
    err := h.clientFor(creds).DeleteWorklog(c.Request.Context(), c.Param("issueKey"), c.Param("worklogId"))
    if err != nil {
        c.JSON(upstreamStatus(err), gin.H{"error": "Failed to delete worklog in JIRA API"})
        return
    }
    c.Status(http.StatusNoContent)
}

// ---- aggregated search ----

// SearchWorklogs runs the aggregation engine for the cookie session and
// returns the settled result with its dashboard summary.
func (h *Handlers) SearchWorklogs(c *gin.Context) {
    req := domain.SearchRequest{
        StartDate:  c.Query("startDate"),
        EndDate:    c.Query("endDate"),
        IssueKey:   c.Query("issueKey"),
        ProjectKey: c.Query("projectKey"),
        Author:     c.Query("author"),
        MaxResults: intQuery(c, "maxResults", h.cfg.DefaultPageSize),
        StartAt:    intQuery(c, "startAt", 0),
    }
    if pk := c.Query("projectKeys"); pk != "" {
        for _, k := range strings.Split(pk, ",") {
            if k = strings.TrimSpace(k); k != "" { req.ProjectKeys = append(req.ProjectKeys, k) }
        }
    }
    creds := sessionCreds(c)
    engine := worklog.NewEngine(h.clientFor(creds), h.log, h.cfg.DefaultWindowDays, h.cfg.DefaultPageSize)
    res, err := engine.Search(c.Request.Context(), req, nil)
    if err != nil {
        var authErr *domain.AuthError
        if errors.As(err, &authErr) {
            h.users.invalidate(creds.Email)
            c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
            return
        }
        var discErr *domain.DiscoveryError
        if errors.As(err, &discErr) {
            c.JSON(upstreamStatus(discErr.Err), gin.H{"error": "Failed to fetch worklogs. Please check your JIRA configuration."})
            return
        }
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{"worklogs": res.Worklogs, "issues": res.Issues, "summary": worklog.Summarize(res)})
}

func intQuery(c *gin.Context, key string, def int) int {
    v := c.Query(key)
    if v == "" { return def }
    n := 0
    for _, r := range v {
        if r < '0' || r > '9' { return def }
        n = n*10 + int(r-'0')
    }
    return n
}
