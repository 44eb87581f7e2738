/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package ratelimit

import (
    "sync"
    "time"
)

// PerKey enforces a cooldown per key. It replaces an ad hoc process-global
// request-tracking map: entries expire via Sweep rather than growing forever.
type PerKey struct {
    mu       sync.Mutex
    cooldown time.Duration
    last     map[string]time.Time
    now      func() time.Time
}

func New(cooldown time.Duration) *PerKey {
    return &PerKey{cooldown: cooldown, last: map[string]time.Time{}, now: time.Now}
}

// Allow reports whether key is outside its cooldown and, if so, marks it used.
func (l *PerKey) Allow(key string) bool {
    l.mu.Lock()
    defer l.mu.Unlock()
    now := l.now()
    if prev, ok := l.last[key]; ok && now.Sub(prev) < l.cooldown { return false }
    l.last[key] = now
    return true
}

// Sweep drops entries idle longer than ttl and returns how many were removed.
func (l *PerKey) Sweep(ttl time.Duration) int {
    l.mu.Lock()
    defer l.mu.Unlock()
    cutoff := l.now().Add(-ttl)
    n := 0
    for k, at := range l.last {
        if at.Before(cutoff) { delete(l.last, k); n++ }
    }
    return n
}

// SetClock injects a clock for tests.
func (l *PerKey) SetClock(now func() time.Time) { l.now = now }
