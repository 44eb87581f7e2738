/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/shadowfieng/jira-worklog-app/internal/config"
    apphttp "github.com/shadowfieng/jira-worklog-app/internal/http"
    "github.com/shadowfieng/jira-worklog-app/internal/jobs"
    "github.com/shadowfieng/jira-worklog-app/internal/logger"
    "github.com/shadowfieng/jira-worklog-app/internal/ratelimit"
)

func main() {
    cfg := config.Load()
    log := logger.New(cfg)

    limiter := ratelimit.New(cfg.WorklogCooldown)

    router, handlers := apphttp.NewRouter(cfg, log, limiter)

    cron := jobs.NewCron(cfg, log, limiter, handlers)
    cron.Start()
    defer cron.Stop()

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()
    log.Info().Str("addr", cfg.HTTPAddr).Msg("worklog dashboard listening")

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }

    time.Sleep(500 * time.Millisecond)
}
