package loop

import (
	"sort"
	"time"
)

type task struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// Scheduler runs delayed one-shot tasks on the frame clock.
//
// Tasks run inside Advance on the caller's goroutine, so they may touch
// the same state as the rest of the frame without locking.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks []task
}

// NewScheduler constructor.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once the clock has advanced by d.
// A negative d is treated as zero.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	s.seq++
	s.tasks = append(s.tasks, task{at: s.now + d, seq: s.seq, fn: fn})
}

// Pending returns the number of tasks not yet run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Advance moves the clock forward by dt and runs every due task in due
// order. Tasks scheduled by a running task with no delay run in the same call.
func (s *Scheduler) Advance(dt time.Duration) {
	s.now += dt

	for {
		due := s.due()
		if len(due) == 0 {
			return
		}
		for _, t := range due {
			t.fn()
		}
	}
}

func (s *Scheduler) due() []task {
	var due, rest []task
	for _, t := range s.tasks {
		if t.at <= s.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	s.tasks = rest

	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})

	return due
}
