/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package domain

import "fmt"

// AuthError: the current-identity lookup failed. Fatal to the whole search.
type AuthError struct{ Err error }

func (e *AuthError) Error() string { return fmt.Sprintf("auth: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// DiscoveryError: issue search failed. Fatal to the whole search; the caller
// owns retry policy.
type DiscoveryError struct{ Err error }

func (e *DiscoveryError) Error() string { return fmt.Sprintf("discovery: %v", e.Err) }
func (e *DiscoveryError) Unwrap() error { return e.Err }

// FetchError: a single-issue worklog fetch failed. Recovered locally as an
// empty contribution.
type FetchError struct {
    IssueKey string
    Err      error
}

func (e *FetchError) Error() string { return fmt.Sprintf("worklog fetch %s: %v", e.IssueKey, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }
