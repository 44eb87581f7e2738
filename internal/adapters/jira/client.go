/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    json "github.com/goccy/go-json"
    "github.com/rs/zerolog"

    "github.com/shadowfieng/jira-worklog-app/internal/config"
    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// Credentials identify one Jira Cloud session: basic auth with email + API
// token against a site base URL.
type Credentials struct {
    Email   string
    APIToken string
    SiteURL string
}

func (c Credentials) valid() bool { return c.Email != "" && c.APIToken != "" && c.SiteURL != "" }

type Client struct {
    creds  Credentials
    http   *http.Client
    log    zerolog.Logger
    apiVer string
}

func NewClient(creds Credentials, cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        creds:  creds,
        http:   &http.Client{ Timeout: cfg.HTTPTimeout },
        log:    log,
        apiVer: cfg.JiraAPIVersion,
    }
}

// APIError carries the upstream status and body. No retries happen here; the
// caller owns retry/backoff policy.
type APIError struct {
    Status int
    Body   string
}

func (e *APIError) Error() string { return fmt.Sprintf("jira api status=%d body=%s", e.Status, e.Body) }

// IsAuthStatus reports whether err is an upstream 401/403.
func IsAuthStatus(err error) bool {
    var ae *APIError
    if errors.As(err, &ae) { return ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden }
    return false
}

func (c *Client) apiURL(path string, q url.Values) string {
    base := strings.TrimRight(c.creds.SiteURL, "/")
    ver := c.apiVer
    if ver == "" { ver = "3" }
    u := base + "/rest/api/" + ver
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u += path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) do(ctx context.Context, method, u string, body any, out any) error {
    if !c.creds.valid() { return errors.New("jira: incomplete credentials") }
    var r io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return err }
        r = bytes.NewReader(b)
    }
    req, err := http.NewRequestWithContext(ctx, method, u, r)
    if err != nil { return err }
    req.Header.Set("Accept", "application/json")
    if body != nil { req.Header.Set("Content-Type", "application/json") }
    req.SetBasicAuth(c.creds.Email, c.creds.APIToken)
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
    }
    if out == nil { return nil }
    if err := json.NewDecoder(resp.Body).Decode(out); err != nil { return err }
    return nil
}

// ---- wire payloads ----

type wireUser struct {
    EmailAddress string            `json:"emailAddress"`
    AccountID    string            `json:"accountId"`
    DisplayName  string            `json:"displayName"`
    TimeZone     string            `json:"timeZone"`
    Locale       string            `json:"locale"`
    Active       bool              `json:"active"`
    AvatarURLs   map[string]string `json:"avatarUrls"`
}

func (w wireUser) domain() domain.User {
    return domain.User{
        Identity:   domain.Identity{Email: w.EmailAddress, AccountID: w.AccountID, DisplayName: w.DisplayName},
        TimeZone:   w.TimeZone,
        Locale:     w.Locale,
        Active:     w.Active,
        AvatarURLs: w.AvatarURLs,
    }
}

type wireDoc struct {
    Type    string    `json:"type"`
    Version int       `json:"version"`
    Content []wireDoc `json:"content,omitempty"`
    Text    string    `json:"text,omitempty"`
}

// plainText flattens an Atlassian document to its text nodes.
func (d wireDoc) plainText() string {
    if d.Text != "" { return d.Text }
    parts := make([]string, 0, len(d.Content))
    for _, c := range d.Content {
        if t := c.plainText(); t != "" { parts = append(parts, t) }
    }
    return strings.Join(parts, "\n")
}

func adfComment(text string) *wireDoc {
    if text == "" { return nil }
    return &wireDoc{
        Type:    "doc",
        Version: 1,
        Content: []wireDoc{{Type: "paragraph", Content: []wireDoc{{Type: "text", Text: text}}}},
    }
}

type wireWorklog struct {
    ID      string `json:"id"`
    IssueID string `json:"issueId"`
    Author  struct {
        EmailAddress string `json:"emailAddress"`
        AccountID    string `json:"accountId"`
        DisplayName  string `json:"displayName"`
    } `json:"author"`
    Comment          *wireDoc `json:"comment,omitempty"`
    Started          string   `json:"started"`
    TimeSpent        string   `json:"timeSpent"`
    TimeSpentSeconds int      `json:"timeSpentSeconds"`
}

func (w wireWorklog) domain() domain.Worklog {
    out := domain.Worklog{
        ID:               w.ID,
        IssueID:          w.IssueID,
        Author:           domain.Identity{Email: w.Author.EmailAddress, AccountID: w.Author.AccountID, DisplayName: w.Author.DisplayName},
        TimeSpent:        w.TimeSpent,
        TimeSpentSeconds: w.TimeSpentSeconds,
    }
    if t := parseTimeUTC(w.Started); t != nil { out.Started = *t }
    if w.Comment != nil { out.Comment = w.Comment.plainText() }
    return out
}

type wireIssue struct {
    ID     string `json:"id"`
    Key    string `json:"key"`
    Fields struct {
        Summary   string `json:"summary"`
        IssueType struct {
            Name    string `json:"name"`
            IconURL string `json:"iconUrl"`
        } `json:"issuetype"`
        Project struct {
            Key  string `json:"key"`
            Name string `json:"name"`
        } `json:"project"`
        Status struct {
            Name           string `json:"name"`
            StatusCategory struct {
                Name string `json:"name"`
            } `json:"statusCategory"`
        } `json:"status"`
        Assignee *struct {
            DisplayName string `json:"displayName"`
        } `json:"assignee"`
        Worklog *struct {
            Total int `json:"total"`
        } `json:"worklog"`
    } `json:"fields"`
}

func (w wireIssue) hit() domain.IssueHit {
    iss := domain.Issue{
        ID:      w.ID,
        Key:     w.Key,
        Summary: w.Fields.Summary,
        Type:    domain.IssueType{Name: w.Fields.IssueType.Name, IconURL: w.Fields.IssueType.IconURL},
        Project: domain.ProjectRef{Key: w.Fields.Project.Key, Name: w.Fields.Project.Name},
        Status:  domain.Status{Name: w.Fields.Status.Name, Category: w.Fields.Status.StatusCategory.Name},
    }
    if w.Fields.Assignee != nil { iss.Assignee = w.Fields.Assignee.DisplayName }
    total := 0
    if w.Fields.Worklog != nil { total = w.Fields.Worklog.Total }
    return domain.IssueHit{Issue: iss, WorklogTotal: total}
}

// ---- operations ----

func (c *Client) Myself(ctx context.Context) (domain.User, error) {
    var wu wireUser
    if err := c.do(ctx, http.MethodGet, c.apiURL("/myself", nil), nil, &wu); err != nil { return domain.User{}, err }
    return wu.domain(), nil
}

// SearchIssues executes a JQL query with an explicit field selection and
// returns discovery rows with their advisory worklog counts.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, startAt, max int) ([]domain.IssueHit, error) {
    if jql == "" { return nil, errors.New("jira: empty jql") }
    q := url.Values{}
    q.Set("jql", jql)
    if len(fields) > 0 { q.Set("fields", strings.Join(fields, ",")) }
    if startAt > 0 { q.Set("startAt", fmt.Sprint(startAt)) }
    if max > 0 { q.Set("maxResults", fmt.Sprint(max)) }
    path := "/search/jql"
    if c.apiVer == "2" { path = "/search" }
    var out struct {
        Issues []wireIssue `json:"issues"`
    }
    if err := c.do(ctx, http.MethodGet, c.apiURL(path, q), nil, &out); err != nil { return nil, err }
    hits := make([]domain.IssueHit, 0, len(out.Issues))
    for _, wi := range out.Issues { hits = append(hits, wi.hit()) }
    return hits, nil
}

// IssueWorklogs fetches the full worklog collection for one issue, paging by
// the response metadata.
func (c *Client) IssueWorklogs(ctx context.Context, issueKey string) ([]domain.Worklog, error) {
    if issueKey == "" { return nil, errors.New("jira: empty issue key") }
    var all []domain.Worklog
    startAt := 0
    for {
        q := url.Values{}
        if startAt > 0 { q.Set("startAt", fmt.Sprint(startAt)) }
        q.Set("maxResults", "100")
        var page struct {
            StartAt    int           `json:"startAt"`
            MaxResults int           `json:"maxResults"`
            Total      int           `json:"total"`
            Worklogs   []wireWorklog `json:"worklogs"`
        }
        u := c.apiURL("/issue/"+url.PathEscape(issueKey)+"/worklog", q)
        if err := c.do(ctx, http.MethodGet, u, nil, &page); err != nil { return nil, err }
        if len(page.Worklogs) == 0 { break }
        for _, ww := range page.Worklogs { all = append(all, ww.domain()) }
        next := page.StartAt + len(page.Worklogs)
        if page.Total == 0 || next >= page.Total { break }
        startAt = next
    }
    return all, nil
}

func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
    q := url.Values{}
    q.Set("expand", "description,lead,url,projectKeys")
    var out []domain.Project
    if err := c.do(ctx, http.MethodGet, c.apiURL("/project", q), nil, &out); err != nil { return nil, err }
    return out, nil
}

// ---- write pass-through (not part of the aggregation core) ----

type worklogBody struct {
    TimeSpentSeconds int      `json:"timeSpentSeconds"`
    Started          string   `json:"started"`
    Comment          *wireDoc `json:"comment,omitempty"`
}

// startedLayout is Jira's required timestamp form for worklog writes.
const startedLayout = "2006-01-02T15:04:05.000-0700"

func draftBody(d domain.WorklogDraft) worklogBody {
    return worklogBody{
        TimeSpentSeconds: d.TimeSpentSeconds,
        Started:          d.Started.Format(startedLayout),
        Comment:          adfComment(d.Comment),
    }
}

func (c *Client) CreateWorklog(ctx context.Context, issueKey string, d domain.WorklogDraft) (domain.Worklog, error) {
    if issueKey == "" { return domain.Worklog{}, errors.New("jira: empty issue key") }
    var ww wireWorklog
    u := c.apiURL("/issue/"+url.PathEscape(issueKey)+"/worklog", nil)
    if err := c.do(ctx, http.MethodPost, u, draftBody(d), &ww); err != nil { return domain.Worklog{}, err }
    return ww.domain(), nil
}

func (c *Client) UpdateWorklog(ctx context.Context, issueKey, worklogID string, d domain.WorklogDraft) (domain.Worklog, error) {
    if issueKey == "" || worklogID == "" { return domain.Worklog{}, errors.New("jira: empty issue key or worklog id") }
    var ww wireWorklog
    u := c.apiURL("/issue/"+url.PathEscape(issueKey)+"/worklog/"+url.PathEscape(worklogID), nil)
    if err := c.do(ctx, http.MethodPut, u, draftBody(d), &ww); err != nil { return domain.Worklog{}, err }
    return ww.domain(), nil
}

func (c *Client) DeleteWorklog(ctx context.Context, issueKey, worklogID string) error {
    if issueKey == "" || worklogID == "" { return errors.New("jira: empty issue key or worklog id") }
    u := c.apiURL("/issue/"+url.PathEscape(issueKey)+"/worklog/"+url.PathEscape(worklogID), nil)
    return c.do(ctx, http.MethodDelete, u, nil, nil)
}

// parseTimeUTC accepts the timestamp layouts Jira emits and normalizes to UTC.
func parseTimeUTC(s string) *time.Time {
    if s == "" { return nil }
    layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000-0700", "2006-01-02T15:04:05-0700"}
    for _, l := range layouts {
        if t, err := time.Parse(l, s); err == nil {
            tt := t.UTC(); return &tt
        }
    }
    return nil
}
