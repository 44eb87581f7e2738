/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "log"
    "os"
    "strconv"
    "strings"
    "time"

    "gopkg.in/yaml.v3"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string

    JiraSiteURL    string // optional fixed site; the cookie value wins when present
    JiraAPIVersion string
    HTTPTimeout    time.Duration

    DebounceWindow    time.Duration
    DefaultWindowDays int
    DefaultPageSize   int

    CookieMaxAge  time.Duration
    SecureCookies bool

    WorklogCooldown time.Duration
    LimiterTTL      time.Duration
    SweepCron       string

    UserCacheTTL time.Duration
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func boolean(key string, def bool) bool {
    v := strings.TrimSpace(os.Getenv(key))
    if v == "" { return def }
    b, err := strconv.ParseBool(v)
    if err != nil { return def }
    return b
}

// fileConfig mirrors the optional YAML file pointed at by CONFIG_FILE. File
// values only fill settings the environment left unset.
type fileConfig struct {
    HTTPAddr      string `yaml:"http_addr"`
    JiraSiteURL   string `yaml:"jira_site_url"`
    HTTPTimeout   string `yaml:"http_timeout"`
    SweepCron     string `yaml:"sweep_cron"`
    SecureCookies *bool  `yaml:"secure_cookies"`
}

func Load() Config {
    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "UTC"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),

        JiraSiteURL:    getenv("JIRA_SITE_URL", ""),
        JiraAPIVersion: getenv("JIRA_API_VERSION", "3"),
        HTTPTimeout:    dur("HTTP_TIMEOUT", 15*time.Second),

        DebounceWindow:    dur("DEBOUNCE_WINDOW", 500*time.Millisecond),
        DefaultWindowDays: atoi("DEFAULT_WINDOW_DAYS", 30),
        DefaultPageSize:   atoi("DEFAULT_PAGE_SIZE", 50),

        CookieMaxAge:  dur("COOKIE_MAX_AGE", 7*24*time.Hour),
        SecureCookies: boolean("SECURE_COOKIES", false),

        WorklogCooldown: dur("WORKLOG_COOLDOWN", time.Second),
        LimiterTTL:      dur("LIMITER_TTL", 10*time.Minute),
        SweepCron:       getenv("SWEEP_CRON", "*/10 * * * *"),

        UserCacheTTL: dur("USER_CACHE_TTL", 15*time.Minute),
    }

    if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
        if data, err := os.ReadFile(path); err == nil {
            var fc fileConfig
            if err := yaml.Unmarshal(data, &fc); err == nil {
                if os.Getenv("HTTP_ADDR") == "" && fc.HTTPAddr != "" { cfg.HTTPAddr = fc.HTTPAddr }
                if os.Getenv("JIRA_SITE_URL") == "" && fc.JiraSiteURL != "" { cfg.JiraSiteURL = fc.JiraSiteURL }
                if os.Getenv("SWEEP_CRON") == "" && fc.SweepCron != "" { cfg.SweepCron = fc.SweepCron }
                if os.Getenv("HTTP_TIMEOUT") == "" && fc.HTTPTimeout != "" {
                    if d, derr := time.ParseDuration(fc.HTTPTimeout); derr == nil { cfg.HTTPTimeout = d }
                }
                if os.Getenv("SECURE_COOKIES") == "" && fc.SecureCookies != nil { cfg.SecureCookies = *fc.SecureCookies }
            } else {
                log.Printf("warning: cannot parse %s: %v", path, err)
            }
        } else {
            log.Printf("warning: cannot read %s: %v", path, err)
        }
    }

    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    } else {
        log.Printf("warning: cannot load TZ %s: %v", cfg.TZ, err)
    }
    return cfg
}
