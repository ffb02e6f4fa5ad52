// Package schedule installs the daily trigger for digest runs.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler keeps at most one cron entry per job name.
type Scheduler struct {
	cron   *cron.Cron
	loc    *time.Location
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// New creates a stopped Scheduler evaluating times in loc.
// A nil logger disables logging.
func New(loc *time.Location, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		loc:     loc,
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// DailySpec returns the cron expression firing every day at hour:00.
func DailySpec(hour int) (string, error) {
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("schedule: hour %d out of range", hour)
	}
	return fmt.Sprintf("0 %d * * *", hour), nil
}

// EnsureDaily removes any entry registered under name and installs job to
// run every day at hour:00. Calling it repeatedly leaves a single entry.
func (s *Scheduler) EnsureDaily(name string, hour int, job func()) error {
	spec, err := DailySpec(hour)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
		s.logger.Info("schedule: removed existing trigger", zap.String("name", name))
	}

	id, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.entries[name] = id

	s.logger.Info("schedule: trigger installed",
		zap.String("name", name),
		zap.String("spec", spec),
		zap.String("location", s.loc.String()))
	return nil
}

// Remove deletes the entry registered under name.
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.entries, name)
	return true
}

// NextAfter returns when the named entry fires next after t.
func (s *Scheduler) NextAfter(name string, t time.Time) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}

	entry := s.cron.Entry(id)
	if !entry.Valid() {
		return time.Time{}, false
	}
	return entry.Schedule.Next(t.In(s.loc)), true
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
