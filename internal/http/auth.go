/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"

    "github.com/shadowfieng/jira-worklog-app/internal/adapters/jira"
)

const (
    cookieEmail   = "jira-email"
    cookieToken   = "jira-token"
    cookieSiteURL = "jira-site-url"
)

// credsFromCookies rebuilds the Jira session from the httpOnly auth cookies.
// A configured fixed site URL overrides nothing; the cookie wins when both
// are present.
func (h *Handlers) credsFromCookies(c *gin.Context) (jira.Credentials, bool) {
    email, err1 := c.Cookie(cookieEmail)
    token, err2 := c.Cookie(cookieToken)
    site, err3 := c.Cookie(cookieSiteURL)
    if err3 != nil || site == "" { site = h.cfg.JiraSiteURL }
    if err1 != nil || err2 != nil || email == "" || token == "" || site == "" {
        return jira.Credentials{}, false
    }
    return jira.Credentials{Email: email, APIToken: token, SiteURL: site}, true
}

func (h *Handlers) setAuthCookies(c *gin.Context, email, token, site string) {
    maxAge := int(h.cfg.CookieMaxAge.Seconds())
    secure := h.cfg.SecureCookies
    c.SetCookie(cookieEmail, email, maxAge, "/", "", secure, true)
    c.SetCookie(cookieToken, token, maxAge, "/", "", secure, true)
    c.SetCookie(cookieSiteURL, site, maxAge, "/", "", secure, true)
}

func (h *Handlers) clearAuthCookies(c *gin.Context) {
    secure := h.cfg.SecureCookies
    c.SetCookie(cookieEmail, "", -1, "/", "", secure, true)
    c.SetCookie(cookieToken, "", -1, "/", "", secure, true)
    c.SetCookie(cookieSiteURL, "", -1, "/", "", secure, true)
}

// requireAuth aborts with 401 when the session cookies are absent and stashes
// the credentials for downstream handlers otherwise.
func (h *Handlers) requireAuth(c *gin.Context) {
    creds, ok := h.credsFromCookies(c)
    if !ok {
        c.AbortWithStatusJSON(401, gin.H{"error": "Authentication required"})
        return
    }
    c.Set(ctxCreds, creds)
    c.Next()
}

const ctxCreds = "jira-creds"

func sessionCreds(c *gin.Context) jira.Credentials {
    v, _ := c.Get(ctxCreds)
    creds, _ := v.(jira.Credentials)
    return creds
}
