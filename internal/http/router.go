/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/shadowfieng/jira-worklog-app/internal/config"
    "github.com/shadowfieng/jira-worklog-app/internal/ratelimit"
)

func NewRouter(cfg config.Config, log zerolog.Logger, limiter *ratelimit.PerKey) (*gin.Engine, *Handlers) {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context){
        reqID := c.GetHeader("X-Request-ID")
        if reqID == "" { reqID = uuid.NewString() }
        c.Header("X-Request-ID", reqID)
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Str("rid", reqID).Msg("http")
    })

    h := NewHandlers(cfg, log, limiter)

    r.GET("/healthz", h.Healthz)
    r.POST("/auth/login", h.Login)
    r.POST("/auth/logout", h.Logout)

    api := r.Group("/api", h.requireAuth)
    api.GET("/worklogs", h.SearchWorklogs)

    jr := api.Group("/jira")
    jr.GET("/myself", h.Myself)
    jr.GET("/search", h.SearchIssues)
    jr.GET("/project", h.Projects)
    jr.GET("/site-info", h.SiteInfo)
    jr.GET("/issue/:issueKey/worklog", h.IssueWorklogs)
    jr.POST("/issue/:issueKey/worklog", h.CreateWorklog)
    jr.PUT("/issue/:issueKey/worklog/:worklogId", h.UpdateWorklog)
    jr.DELETE("/issue/:issueKey/worklog/:worklogId", h.DeleteWorklog)

    return r, h
}
