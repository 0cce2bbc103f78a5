package ecs

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TaskCount       int
	TotalExecutions int64
	Clock           float64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (st *systemStatsInternal) record(d time.Duration) {
	st.executionCount++
	st.lastDuration = d
	st.totalDuration += d
	st.minDuration = min(st.minDuration, d)
	st.maxDuration = max(st.maxDuration, d)
}

// storageBinder is implemented by Query and Singleton fields.
type storageBinder interface {
	Init(storage *Storage)
}

// snapshotter is implemented by Query fields.
type snapshotter interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []snapshotter
	stats   *systemStatsInternal
}

// Scheduler runs systems in registration order once per tick and drives
// cooperative tasks on a simulated clock. Exactly one of the scheduler or a
// single task runs at any moment, so storage needs no locking.
type Scheduler struct {
	storage *Storage
	systems []*registeredSystem
	tasks   []*TaskHandle
	clock   float64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool

	logger zerolog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the logger used for task lifecycle messages.
func WithLogger(logger zerolog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a new scheduler for the given storage.
func NewScheduler(storage *Storage, opts ...SchedulerOption) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		storage: storage,
		ctx:     ctx,
		cancel:  cancel,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Storage returns the storage the scheduler operates on.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Clock returns the simulated time accumulated from tick deltas.
func (s *Scheduler) Clock() float64 {
	return s.clock
}

// Register adds a system to the scheduler and binds its Query and Singleton fields.
func (s *Scheduler) Register(system System) {
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systems = append(s.systems, &registeredSystem{
		system:  system,
		queries: s.bindFields(system),
		stats: &systemStatsInternal{
			name:        systemType.Name(),
			minDuration: time.Duration(1<<63 - 1),
		},
	})
}

func (s *Scheduler) bindFields(system System) []snapshotter {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}
	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	var queries []snapshotter
	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}

		addr := field.Addr().Interface()
		if binder, ok := addr.(storageBinder); ok {
			binder.Init(s.storage)
		}
		if q, ok := addr.(snapshotter); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// Go starts a cooperative task. It is first resumed on the next tick.
func (s *Scheduler) Go(name string, task Task) *TaskHandle {
	h := newTaskHandle(s.ctx, name, s.clock)
	if s.closed {
		s.logger.Warn().Str("task", name).Msg("scheduler closed, task not started")
		return h
	}

	s.tasks = append(s.tasks, h)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		h.run(task)
	}()

	s.logger.Debug().Str("task", name).Msg("task started")
	return h
}

// Once advances the simulated clock by dt, runs every system, resumes every
// task whose sleep has elapsed, then flushes the tick's commands.
func (s *Scheduler) Once(dt float64) {
	s.clock += dt
	frame := newUpdateFrame(dt, s.clock, s.storage)

	for _, rs := range s.systems {
		start := time.Now()
		for _, q := range rs.queries {
			q.Execute()
		}
		rs.system.Execute(frame)
		rs.stats.record(time.Since(start))
	}

	s.resumeTasks(frame)

	frame.Commands.Flush(s.storage)
}

func (s *Scheduler) resumeTasks(frame *UpdateFrame) {
	live := s.tasks[:0]
	for _, h := range s.tasks {
		if s.resumeIfDue(h, frame) {
			live = append(live, h)
		}
	}
	clear(s.tasks[len(live):])
	s.tasks = live
}

// resumeIfDue hands frame to h if its sleep has elapsed and reports whether
// the task is still alive. A task's first slice only runs it up to its first
// Sleep, so a task whose first wake is already due gets a second slice in
// the same tick.
func (s *Scheduler) resumeIfDue(h *TaskHandle, frame *UpdateFrame) bool {
	if h.wakeAt > s.clock+taskClockEpsilon {
		return true
	}

	first := !h.started
	h.started = true

	h.resume <- frame
	y := <-h.yield
	if y.done {
		s.taskExited(h, y.err)
		return false
	}
	h.wakeAt = y.wakeAt

	if first && h.wakeAt <= s.clock+taskClockEpsilon {
		return s.resumeIfDue(h, frame)
	}
	return true
}

func (s *Scheduler) taskExited(h *TaskHandle, err error) {
	switch {
	case err == nil:
		s.logger.Debug().Str("task", h.name).Msg("task finished")
	case errors.Is(err, context.Canceled):
		s.logger.Debug().Str("task", h.name).Msg("task cancelled")
	default:
		s.logger.Error().Err(err).Str("task", h.name).Msg("task failed")
	}
}

// Close cancels every task, waits for them to return and stops accepting new
// ones. It must not be called from inside a system or task.
func (s *Scheduler) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()

	for _, h := range s.tasks {
		close(h.resume)
		y := <-h.yield
		s.taskExited(h, y.err)
	}
	s.tasks = nil
	s.wg.Wait()
}

// Run executes all systems repeatedly at the given interval until the context
// is cancelled, then closes the scheduler.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer s.Close()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		TaskCount:   len(s.tasks),
		Clock:       s.clock,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, rs := range s.systems {
		internal := rs.stats
		var avgDuration time.Duration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
