package domain

import (
    "strings"
    "time"
)

// Identity is the stable user identity used as the join key across Jira
// payload shapes. Email is canonical; AccountID is the fallback when the
// server hides emails. Display names are not reliable keys.
type Identity struct {
    Email       string `json:"emailAddress"`
    AccountID   string `json:"accountId"`
    DisplayName string `json:"displayName"`
}

// Equal is the one canonical identity comparison. Case-insensitive email
// match; AccountID only when both emails are absent.
func (i Identity) Equal(other Identity) bool {
    a := strings.ToLower(strings.TrimSpace(i.Email))
    b := strings.ToLower(strings.TrimSpace(other.Email))
    if a != "" || b != "" { return a == b }
    return i.AccountID != "" && i.AccountID == other.AccountID
}

type User struct {
    Identity
    TimeZone   string            `json:"timeZone"`
    Locale     string            `json:"locale"`
    Active     bool              `json:"active"`
    AvatarURLs map[string]string `json:"avatarUrls,omitempty"`
}

type IssueType struct {
    Name    string `json:"name"`
    IconURL string `json:"iconUrl"`
}

type ProjectRef struct {
    Key  string `json:"key"`
    Name string `json:"name"`
}

type Status struct {
    Name     string `json:"name"`
    Category string `json:"category"`
}

type Issue struct {
    ID       string     `json:"id"`
    Key      string     `json:"key"`
    Summary  string     `json:"summary"`
    Type     IssueType  `json:"issuetype"`
    Project  ProjectRef `json:"project"`
    Status   Status     `json:"status"`
    Assignee string     `json:"assignee,omitempty"`
}

// UnknownIssue is the sentinel for worklogs whose issue never arrived through
// discovery. Consumers render it instead of dropping the entry.
func UnknownIssue(id string) Issue {
    return Issue{
        ID:      id,
        Key:     "UNKNOWN",
        Summary: "Unknown Issue",
        Type:    IssueType{Name: "Unknown"},
        Project: ProjectRef{Key: "UNKNOWN", Name: "Unknown Project"},
        Status:  Status{Name: "Unknown", Category: "Unknown"},
    }
}

type Worklog struct {
    ID               string   `json:"id"`
    IssueID          string   `json:"issueId"`
    Author           Identity `json:"author"`
    Started          time.Time `json:"started"`
    TimeSpentSeconds int      `json:"timeSpentSeconds"`
    TimeSpent        string   `json:"timeSpent"` // display only, never computed with
    Comment          string   `json:"comment,omitempty"`
}

// IssueHit is a discovery row: the issue plus its advisory worklog count.
// The hint only decides whether a detail fetch happens; it is never trusted
// for final counts.
type IssueHit struct {
    Issue        Issue
    WorklogTotal int
}

type Project struct {
    Key  string `json:"key"`
    Name string `json:"name"`
}

// WorklogDraft is the write-path payload for create/update pass-through.
type WorklogDraft struct {
    TimeSpentSeconds int       `json:"timeSpentSeconds"`
    Started          time.Time `json:"started"`
    Comment          string    `json:"comment,omitempty"`
}
