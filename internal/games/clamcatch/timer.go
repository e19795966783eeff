package clamcatch

import "time"

// Scheduler runs the world's timers in whole ticks: one repeating timer
// (the spawn timer) and any number of one-shot delayed calls.
type Scheduler struct {
	tickRate int

	repeating bool
	every     int
	left      int

	delayed []delayedCall
	nextID  TimerID
}

type delayedCall struct {
	id   TimerID
	left int
	fn   func()
}

// NewScheduler creates a scheduler for the given tick rate.
func NewScheduler(tickRate int) *Scheduler {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Scheduler{tickRate: tickRate}
}

// TicksFor converts a duration to ticks, rounding up. Anything positive
// or zero lasts at least one tick.
func (s *Scheduler) TicksFor(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	n := (int64(d)*int64(s.tickRate) + int64(time.Second) - 1) / int64(time.Second)
	return max(int(n), 1)
}

// StartRepeating (re)starts the repeating timer. The first fire happens
// one full period from now.
func (s *Scheduler) StartRepeating(every time.Duration) {
	s.repeating = true
	s.every = s.TicksFor(every)
	s.left = s.every
}

// StopRepeating cancels the repeating timer.
func (s *Scheduler) StopRepeating() {
	s.repeating = false
	s.left = 0
}

// Repeating reports whether the repeating timer is running.
func (s *Scheduler) Repeating() bool {
	return s.repeating
}

// After schedules fn to run once after delay.
func (s *Scheduler) After(delay time.Duration, fn func()) TimerID {
	s.nextID++
	s.delayed = append(s.delayed, delayedCall{
		id:   s.nextID,
		left: s.TicksFor(delay),
		fn:   fn,
	})
	return s.nextID
}

// Cancel drops a pending delayed call. Unknown IDs are ignored.
func (s *Scheduler) Cancel(id TimerID) {
	for i, call := range s.delayed {
		if call.id == id {
			s.delayed = append(s.delayed[:i], s.delayed[i+1:]...)
			return
		}
	}
}

// Pending returns the number of delayed calls still waiting.
func (s *Scheduler) Pending() int {
	return len(s.delayed)
}

// Reset drops every timer.
func (s *Scheduler) Reset() {
	s.StopRepeating()
	s.delayed = s.delayed[:0]
}

// Advance moves time forward one tick. Due delayed calls run in
// scheduling order; the return value reports whether the repeating timer
// fired, leaving its callback to the caller.
func (s *Scheduler) Advance() bool {
	var due []delayedCall
	kept := s.delayed[:0]
	for _, call := range s.delayed {
		call.left--
		if call.left <= 0 {
			due = append(due, call)
			continue
		}
		kept = append(kept, call)
	}
	s.delayed = kept

	for _, call := range due {
		call.fn()
	}

	if !s.repeating {
		return false
	}
	s.left--
	if s.left > 0 {
		return false
	}
	s.left = s.every
	return true
}
