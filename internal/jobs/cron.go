package jobs

import (
    "time"

    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/shadowfieng/jira-worklog-app/internal/config"
    "github.com/shadowfieng/jira-worklog-app/internal/ratelimit"
)

type sweeper interface{ UserCacheSweep() int }

// Cron runs the periodic housekeeping: the per-issue rate limiter and the
// user cache both shed stale entries on a schedule.
type Cron struct {
    cfg     config.Config
    log     zerolog.Logger
    limiter *ratelimit.PerKey
    cache   sweeper
    c       *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, limiter *ratelimit.PerKey, cache sweeper) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, limiter: limiter, cache: cache, c: c}
    _, _ = c.AddFunc(cfg.SweepCron, cr.sweep)
    return cr
}

func (cr *Cron) Start(){ cr.c.Start() }
func (cr *Cron) Stop(){ cr.c.Stop() }

func (cr *Cron) sweep(){
    dropped := cr.limiter.Sweep(cr.cfg.LimiterTTL)
    expired := cr.cache.UserCacheSweep()
    cr.log.Debug().Int("limiter_dropped", dropped).Int("users_expired", expired).Msg("cron: sweep")
}
