package matching

import (
    "context"
    "log"
    "time"

    "github.com/robfig/cron/v3"
)

// Scheduler optionally pre-generates daily batches ahead of the first
// request. Disabled deployments behave identically, just lazier.
type Scheduler struct {
    service Service
    cron    *cron.Cron
    spec    string
}

func NewScheduler(service Service, spec string) *Scheduler {
    return &Scheduler{
        service: service,
        cron:    cron.New(),
        spec:    spec,
    }
}

func (s *Scheduler) Start() error {
    _, err := s.cron.AddFunc(s.spec, func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
        defer cancel()

        if err := s.service.GenerateDailyBatches(ctx); err != nil {
            log.Printf("Daily batch pre-generation failed: %v", err)
        }
    })
    if err != nil {
        return err
    }

    s.cron.Start()
    return nil
}

func (s *Scheduler) Stop() {
    s.cron.Stop()
}
