package worklog

import (
    "testing"
    "time"

    "pgregory.net/rapid"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

func TestMergerAddIsIdempotent(t *testing.T) {
    m := NewMerger()
    batch := []domain.Worklog{
        wlAt("a", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), me),
        wlAt("b", time.Date(2024, 1, 6, 9, 0, 0, 0, time.UTC), me),
    }
    first := m.Add(batch)
    second := m.Add(batch)
    if len(first) != 2 { t.Fatalf("first add should report both entries, got %d", len(first)) }
    if len(second) != 0 { t.Fatalf("repeated add must be a no-op, got %d", len(second)) }
    res := m.Result()
    if len(res.Worklogs) != 2 { t.Fatalf("duplicates leaked: %d entries", len(res.Worklogs)) }
}

func TestMergerResultSortedDescending(t *testing.T) {
    m := NewMerger()
    m.Add([]domain.Worklog{
        wlAt("old", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), me),
        wlAt("new", time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), me),
        wlAt("mid", time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), me),
    })
    res := m.Result()
    want := []string{"new", "mid", "old"}
    for i, id := range want {
        if res.Worklogs[i].ID != id { t.Fatalf("order %v, want %v", res.Worklogs, want) }
    }
}

func TestMergerTracksIssuesWithoutWorklogs(t *testing.T) {
    m := NewMerger()
    m.TrackIssue(domain.Issue{ID: "1", Key: "PROJ-1"})
    res := m.Result()
    if len(res.Worklogs) != 0 || len(res.Issues) != 1 { t.Fatalf("unexpected result %+v", res) }
}

func TestMergerResultIsSnapshot(t *testing.T) {
    m := NewMerger()
    m.Add([]domain.Worklog{wlAt("a", time.Now().UTC(), me)})
    res := m.Result()
    m.Add([]domain.Worklog{wlAt("b", time.Now().UTC(), me)})
    if len(res.Worklogs) != 1 { t.Fatalf("snapshot mutated by later adds") }
}

// Property: for any batches with arbitrary duplication, the merged result has
// unique ids, is sorted by Started descending, and equals the union of what
// Add reported as new.
func TestMergerProperties(t *testing.T) {
    rapid.Check(t, func(t *rapid.T) {
        m := NewMerger()
        union := map[string]struct{}{}
        ids := rapid.SliceOfN(rapid.StringMatching(`w[0-9]{1,3}`), 1, 40).Draw(t, "ids")
        for len(ids) > 0 {
            n := rapid.IntRange(1, len(ids)).Draw(t, "batch")
            batch := make([]domain.Worklog, 0, n)
            for _, id := range ids[:n] {
                started := time.Unix(int64(rapid.IntRange(0, 1<<30).Draw(t, "ts")), 0).UTC()
                batch = append(batch, wlAt(id, started, me))
            }
            ids = ids[n:]
            for _, added := range m.Add(batch) { union[added.ID] = struct{}{} }
            if rapid.Bool().Draw(t, "replay") { m.Add(batch) }
        }
        res := m.Result()
        if len(res.Worklogs) != len(union) {
            t.Fatalf("result has %d entries, union has %d", len(res.Worklogs), len(union))
        }
        seen := map[string]struct{}{}
        for i, wl := range res.Worklogs {
            if _, dup := seen[wl.ID]; dup { t.Fatalf("duplicate id %s", wl.ID) }
            seen[wl.ID] = struct{}{}
            if _, ok := union[wl.ID]; !ok { t.Fatalf("id %s missing from union", wl.ID) }
            if i > 0 && res.Worklogs[i-1].Started.Before(wl.Started) {
                t.Fatalf("not sorted descending at %d", i)
            }
        }
    })
}
