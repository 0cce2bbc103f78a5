package ecs

import "context"

// Task is a cooperative routine driven by a Scheduler. The scheduler resumes
// it after the tick's systems have run; the task then has exclusive access to
// the frame until it calls Sleep or returns. A task that ignores a non-nil
// error from Sleep must return promptly.
type Task func(ctx context.Context, h *TaskHandle) error

// taskClockEpsilon absorbs rounding when summed tick deltas land a hair short
// of a wake time.
const taskClockEpsilon = 1e-9

type taskYield struct {
	wakeAt float64
	done   bool
	err    error
}

// TaskHandle is a task's view of the scheduler.
type TaskHandle struct {
	name   string
	ctx    context.Context
	resume chan *UpdateFrame
	yield  chan taskYield
	frame  *UpdateFrame
	wakeAt float64

	started bool
}

func newTaskHandle(ctx context.Context, name string, wakeAt float64) *TaskHandle {
	return &TaskHandle{
		name:   name,
		ctx:    ctx,
		resume: make(chan *UpdateFrame),
		yield:  make(chan taskYield),
		wakeAt: wakeAt,
	}
}

// Name returns the name the task was started with.
func (h *TaskHandle) Name() string {
	return h.name
}

// Frame returns the tick the task is currently running in.
func (h *TaskHandle) Frame() *UpdateFrame {
	return h.frame
}

// Sleep suspends the task for the given number of simulated seconds,
// measured from the time it was due rather than the tick it actually ran in,
// so a periodic loop keeps its cadence. A task that has fallen more than one
// period behind sleeps from the current tick instead of catching up.
// Sleep returns the context's error, without suspending, once the scheduler
// has been closed.
func (h *TaskHandle) Sleep(seconds float64) error {
	if err := h.ctx.Err(); err != nil {
		return err
	}

	next := h.wakeAt + seconds
	if next < h.frame.Time {
		next = h.frame.Time + seconds
	}
	h.yield <- taskYield{wakeAt: next}

	frame, ok := <-h.resume
	if !ok {
		return h.ctx.Err()
	}
	h.frame = frame
	return nil
}

func (h *TaskHandle) run(task Task) {
	frame, ok := <-h.resume
	if !ok {
		h.yield <- taskYield{done: true, err: h.ctx.Err()}
		return
	}
	h.frame = frame
	err := task(h.ctx, h)
	h.yield <- taskYield{done: true, err: err}
}
