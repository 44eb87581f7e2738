package worklog

import (
    "testing"
    "time"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

var me = domain.Identity{Email: "me@example.com", AccountID: "me-1", DisplayName: "Me"}

func wlAt(id string, started time.Time, author domain.Identity) domain.Worklog {
    return domain.Worklog{ID: id, Author: author, Started: started, TimeSpentSeconds: 3600}
}

func TestFilterWorklogs_RejectsOtherAuthors(t *testing.T) {
    other := domain.Identity{Email: "colleague@example.com", DisplayName: "Me"} // same display name, different person
    in := []domain.Worklog{
        wlAt("1", time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), me),
        wlAt("2", time.Date(2024, 1, 6, 10, 0, 0, 0, time.UTC), other),
    }
    out := filterWorklogs(in, me, window{}, "10001")
    if len(out) != 1 || out[0].ID != "1" { t.Fatalf("expected only my entry, got %+v", out) }
}

func TestFilterWorklogs_AllForeignAuthorsYieldEmpty(t *testing.T) {
    other := domain.Identity{Email: "colleague@example.com"}
    in := []domain.Worklog{wlAt("1", time.Now().UTC(), other), wlAt("2", time.Now().UTC(), other)}
    if out := filterWorklogs(in, me, window{}, "10001"); len(out) != 0 {
        t.Fatalf("no cross-user leakage allowed, got %+v", out)
    }
}

func TestFilterWorklogs_DateBoundsInclusive(t *testing.T) {
    w := window{
        start: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), hasStart: true,
        end: time.Date(2024, 1, 6, 23, 59, 59, int(999*time.Millisecond), time.UTC), hasEnd: true,
    }
    in := []domain.Worklog{
        wlAt("before", time.Date(2024, 1, 4, 23, 59, 59, 0, time.UTC), me),
        wlAt("lower", w.start, me),
        wlAt("upper", w.end, me),
        wlAt("after", time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), me),
    }
    out := filterWorklogs(in, me, w, "10001")
    if len(out) != 2 || out[0].ID != "lower" || out[1].ID != "upper" {
        t.Fatalf("expected the inclusive boundary entries, got %+v", out)
    }
}

func TestFilterWorklogs_StampsIssueID(t *testing.T) {
    in := []domain.Worklog{wlAt("1", time.Now().UTC(), me)}
    out := filterWorklogs(in, me, window{}, "10042")
    if out[0].IssueID != "10042" { t.Fatalf("issue id not stamped: %+v", out[0]) }
}
