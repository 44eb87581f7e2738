package http

import (
    "sync"
    "time"

    "github.com/shadowfieng/jira-worklog-app/internal/domain"
)

// userCache memoizes /myself lookups per session email. Cached profiles are
// dropped on TTL expiry, on logout and on upstream auth failures.
type userCache struct {
    mu      sync.Mutex
    ttl     time.Duration
    entries map[string]cachedUser
    now     func() time.Time
}

type cachedUser struct {
    user    domain.User
    expires time.Time
}

func newUserCache(ttl time.Duration) *userCache {
    return &userCache{ttl: ttl, entries: map[string]cachedUser{}, now: time.Now}
}

func (uc *userCache) get(email string) (domain.User, bool) {
    uc.mu.Lock()
    defer uc.mu.Unlock()
    e, ok := uc.entries[email]
    if !ok || uc.now().After(e.expires) {
        delete(uc.entries, email)
        return domain.User{}, false
    }
    return e.user, true
}

func (uc *userCache) put(email string, u domain.User) {
    uc.mu.Lock()
    defer uc.mu.Unlock()
    uc.entries[email] = cachedUser{user: u, expires: uc.now().Add(uc.ttl)}
}

func (uc *userCache) invalidate(email string) {
    uc.mu.Lock()
    defer uc.mu.Unlock()
    delete(uc.entries, email)
}

// Sweep drops expired entries; wired to the background sweep job.
func (uc *userCache) Sweep() int {
    uc.mu.Lock()
    defer uc.mu.Unlock()
    now := uc.now()
    n := 0
    for k, e := range uc.entries {
        if now.After(e.expires) { delete(uc.entries, k); n++ }
    }
    return n
}
