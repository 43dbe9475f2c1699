// Package scheduler runs registered jobs on fixed intervals or at a
// daily wall-clock time. Each job runs in its own goroutine and never
// overlaps itself: the next tick waits until the previous execution
// returns.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	name     string
	fn       func(context.Context) error
	interval time.Duration
	daily    bool
	hour     int
	minute   int
}

// Registry holds the jobs to run. Register everything before calling
// Run; the registry is not safe for concurrent mutation.
type Registry struct {
	log  *slog.Logger
	jobs []job
	now  func() time.Time
}

// New creates an empty registry.
func New(log *slog.Logger) *Registry {
	return &Registry{log: log, now: time.Now}
}

// AddInterval registers a job that runs immediately on start and then on
// every interval tick.
func (r *Registry) AddInterval(name string, every time.Duration, fn func(context.Context) error) {
	r.jobs = append(r.jobs, job{name: name, fn: fn, interval: every})
}

// AddDaily registers a job that runs once a day at the given local time.
func (r *Registry) AddDaily(name string, hour, minute int, fn func(context.Context) error) {
	r.jobs = append(r.jobs, job{name: name, fn: fn, daily: true, hour: hour, minute: minute})
}

// Run starts all registered jobs and blocks until ctx is cancelled and
// every in-flight execution has returned.
func (r *Registry) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range r.jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			if j.daily {
				r.runDaily(ctx, j)
			} else {
				r.runInterval(ctx, j)
			}
		}(j)
	}
	wg.Wait()
}

func (r *Registry) runInterval(ctx context.Context, j job) {
	r.execute(ctx, j)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.execute(ctx, j)
		}
	}
}

func (r *Registry) runDaily(ctx context.Context, j job) {
	for {
		next := r.nextDaily(j)
		timer := time.NewTimer(next.Sub(r.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			r.execute(ctx, j)
		}
	}
}

// nextDaily returns the next occurrence of the job's wall-clock time,
// today if it is still ahead, otherwise tomorrow.
func (r *Registry) nextDaily(j job) time.Time {
	now := r.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), j.hour, j.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (r *Registry) execute(ctx context.Context, j job) {
	start := r.now()
	if err := j.fn(ctx); err != nil {
		r.log.Error("job failed", "job", j.name, "duration", time.Since(start), "error", err)
		return
	}
	r.log.Debug("job finished", "job", j.name, "duration", time.Since(start))
}
