package jira

import (
    "context"
    "errors"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    json "github.com/goccy/go-json"
    "github.com/rs/zerolog"

    "github.com/shadowfieng/jira-worklog-app/internal/config"
    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

func testClient(siteURL, apiVer string) *Client {
    cfg := config.Config{HTTPTimeout: 5 * time.Second, JiraAPIVersion: apiVer}
    return NewClient(Credentials{Email: "me@example.com", APIToken: "tok", SiteURL: siteURL}, cfg, zerolog.Nop())
}

func TestMyself(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/rest/api/3/myself" { t.Errorf("path = %s", r.URL.Path) }
        if user, pass, _ := r.BasicAuth(); user != "me@example.com" || pass != "tok" {
            t.Errorf("basic auth = %s:%s", user, pass)
        }
        io.WriteString(w, `{"emailAddress":"me@example.com","accountId":"acc-1","displayName":"Me","timeZone":"Europe/Berlin","active":true}`)
    }))
    defer srv.Close()

    u, err := testClient(srv.URL, "3").Myself(context.Background())
    if err != nil { t.Fatalf("myself: %v", err) }
    if u.Identity.Email != "me@example.com" || u.Identity.AccountID != "acc-1" || u.TimeZone != "Europe/Berlin" {
        t.Fatalf("user = %+v", u)
    }
}

func TestSearchIssues(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/rest/api/3/search/jql" { t.Errorf("path = %s", r.URL.Path) }
        q := r.URL.Query()
        if q.Get("jql") == "" { t.Errorf("missing jql param") }
        if q.Get("fields") == "" { t.Errorf("missing fields param") }
        if q.Get("maxResults") != "50" { t.Errorf("maxResults = %s", q.Get("maxResults")) }
        io.WriteString(w, `{"issues":[
            {"id":"10001","key":"PROJ-1","fields":{
                "summary":"Fix login",
                "issuetype":{"name":"Bug","iconUrl":"https://x/bug.svg"},
                "project":{"key":"PROJ","name":"Project"},
                "status":{"name":"In Progress","statusCategory":{"name":"In Progress"}},
                "assignee":{"displayName":"Me"},
                "worklog":{"total":4}}},
            {"id":"10002","key":"PROJ-2","fields":{
                "summary":"No assignee, no worklogs",
                "issuetype":{"name":"Task"},
                "project":{"key":"PROJ","name":"Project"},
                "status":{"name":"To Do","statusCategory":{"name":"To Do"}}}}
        ]}`)
    }))
    defer srv.Close()

    hits, err := testClient(srv.URL, "3").SearchIssues(context.Background(), `worklogAuthor = currentUser()`, []string{"key", "summary"}, 0, 50)
    if err != nil { t.Fatalf("search: %v", err) }
    if len(hits) != 2 { t.Fatalf("hits = %+v", hits) }
    if hits[0].Issue.Key != "PROJ-1" || hits[0].WorklogTotal != 4 || hits[0].Issue.Assignee != "Me" {
        t.Fatalf("first hit = %+v", hits[0])
    }
    if hits[0].Issue.Status.Category != "In Progress" { t.Fatalf("status category lost: %+v", hits[0].Issue) }
    if hits[1].WorklogTotal != 0 || hits[1].Issue.Assignee != "" { t.Fatalf("second hit = %+v", hits[1]) }
}

func TestSearchIssuesV2UsesLegacyPath(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/rest/api/2/search" { t.Errorf("path = %s", r.URL.Path) }
        io.WriteString(w, `{"issues":[]}`)
    }))
    defer srv.Close()
    if _, err := testClient(srv.URL, "2").SearchIssues(context.Background(), "x", nil, 0, 0); err != nil {
        t.Fatalf("search: %v", err)
    }
}

func TestIssueWorklogsPaginates(t *testing.T) {
    var starts []string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/rest/api/3/issue/PROJ-1/worklog" { t.Errorf("path = %s", r.URL.Path) }
        starts = append(starts, r.URL.Query().Get("startAt"))
        if r.URL.Query().Get("startAt") == "" {
            io.WriteString(w, `{"startAt":0,"maxResults":2,"total":3,"worklogs":[
                {"id":"1","issueId":"10001","author":{"emailAddress":"me@example.com"},"started":"2024-01-05T10:00:00.000+0300","timeSpent":"1h","timeSpentSeconds":3600,
                 "comment":{"type":"doc","version":1,"content":[{"type":"paragraph","content":[{"type":"text","text":"standup notes"}]}]}},
                {"id":"2","issueId":"10001","author":{"emailAddress":"me@example.com"},"started":"2024-01-06T10:00:00.000+0000","timeSpentSeconds":1800}
            ]}`)
            return
        }
        io.WriteString(w, `{"startAt":2,"maxResults":2,"total":3,"worklogs":[
            {"id":"3","issueId":"10001","author":{"emailAddress":"me@example.com"},"started":"2024-01-07T10:00:00Z","timeSpentSeconds":900}
        ]}`)
    }))
    defer srv.Close()

    wls, err := testClient(srv.URL, "3").IssueWorklogs(context.Background(), "PROJ-1")
    if err != nil { t.Fatalf("worklogs: %v", err) }
    if len(wls) != 3 { t.Fatalf("expected all pages, got %d entries", len(wls)) }
    if len(starts) != 2 || starts[1] != "2" { t.Fatalf("pagination requests = %v", starts) }
    // offset timestamps normalize to UTC
    if want := time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC); !wls[0].Started.Equal(want) {
        t.Fatalf("started = %s, want %s", wls[0].Started, want)
    }
    if wls[0].Comment != "standup notes" { t.Fatalf("comment = %q", wls[0].Comment) }
}

func TestAPIErrorCarriesStatus(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusUnauthorized)
        io.WriteString(w, `{"errorMessages":["bad token"]}`)
    }))
    defer srv.Close()

    _, err := testClient(srv.URL, "3").Myself(context.Background())
    if err == nil { t.Fatalf("expected error") }
    if !IsAuthStatus(err) { t.Fatalf("401 should be an auth status: %v", err) }

    var ae *APIError
    if ok := errors.As(err, &ae); !ok || ae.Status != http.StatusUnauthorized {
        t.Fatalf("error = %v", err)
    }
}

func TestIsAuthStatusIgnoresServerErrors(t *testing.T) {
    if IsAuthStatus(&APIError{Status: http.StatusInternalServerError}) {
        t.Fatalf("500 is not an auth failure")
    }
}

func TestCreateWorklogSendsADF(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost { t.Errorf("method = %s", r.Method) }
        var body worklogBody
        if err := json.NewDecoder(r.Body).Decode(&body); err != nil { t.Errorf("body: %v", err) }
        if body.TimeSpentSeconds != 1800 { t.Errorf("timeSpentSeconds = %d", body.TimeSpentSeconds) }
        if body.Started != "2024-01-05T10:00:00.000+0000" { t.Errorf("started = %q", body.Started) }
        if body.Comment == nil || body.Comment.plainText() != "pairing" { t.Errorf("comment = %+v", body.Comment) }
        w.WriteHeader(http.StatusCreated)
        io.WriteString(w, `{"id":"42","issueId":"10001","started":"2024-01-05T10:00:00.000+0000","timeSpentSeconds":1800}`)
    }))
    defer srv.Close()

    wl, err := testClient(srv.URL, "3").CreateWorklog(context.Background(), "PROJ-1", domain.WorklogDraft{
        TimeSpentSeconds: 1800,
        Started:          time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC),
        Comment:          "pairing",
    })
    if err != nil { t.Fatalf("create: %v", err) }
    if wl.ID != "42" { t.Fatalf("worklog = %+v", wl) }
}

func TestCreateWorklogOmitsEmptyComment(t *testing.T) {
    if adfComment("") != nil { t.Fatalf("empty comment must not produce a doc") }
}

func TestDoRejectsIncompleteCredentials(t *testing.T) {
    c := NewClient(Credentials{Email: "me@example.com"}, config.Config{HTTPTimeout: time.Second}, zerolog.Nop())
    if _, err := c.Myself(context.Background()); err == nil {
        t.Fatalf("expected credential validation error")
    }
}

func TestParseTimeUTC(t *testing.T) {
    if parseTimeUTC("") != nil { t.Fatalf("empty string should not parse") }
    if parseTimeUTC("yesterday") != nil { t.Fatalf("garbage should not parse") }
    got := parseTimeUTC("2024-01-05T10:00:00+0300")
    if got == nil || !got.Equal(time.Date(2024, 1, 5, 7, 0, 0, 0, time.UTC)) {
        t.Fatalf("parsed = %v", got)
    }
}
