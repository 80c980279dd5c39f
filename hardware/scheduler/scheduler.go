// This file is part of Wdtsim.
//
// Wdtsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Wdtsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Wdtsim.  If not, see <https://www.gnu.org/licenses/>.

package scheduler

import (
	"container/heap"
	"fmt"
	"time"
)

// Time is virtual time in nanoseconds.
type Time int64

// Duration converts the virtual time to a time.Duration.
func (t Time) Duration() time.Duration {
	return time.Duration(t)
}

func (t Time) String() string {
	return time.Duration(t).String()
}

// Event is a function scheduled to run at a specific virtual time.
type Event struct {
	at    Time
	seq   uint64
	label string
	fn    func()

	// index in the queue. -1 if the event is not queued
	index int
}

// At returns the time the event is scheduled for.
func (e *Event) At() Time {
	return e.at
}

// Label returns the label given to the event when it was scheduled.
func (e *Event) Label() string {
	return e.label
}

// Pending returns true if the event is still waiting to be run.
func (e *Event) Pending() bool {
	return e != nil && e.index >= 0
}

func (e *Event) String() string {
	return fmt.Sprintf("%s @ %s", e.label, e.at)
}

// Scheduler is a discrete-event scheduler running in virtual time.
type Scheduler struct {
	now   Time
	seq   uint64
	queue eventQueue
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. Virtual time starts at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: make(eventQueue, 0, 16),
	}
}

func (s *Scheduler) String() string {
	return fmt.Sprintf("now=%s pending=%d", s.now, len(s.queue))
}

// Now returns the current virtual time.
func (s *Scheduler) Now() Time {
	return s.now
}

// Schedule a function to be run at the specified time. Times in the past are
// treated as the current time.
func (s *Scheduler) Schedule(at Time, label string, fn func()) *Event {
	if at < s.now {
		at = s.now
	}
	e := &Event{
		at:    at,
		seq:   s.seq,
		label: label,
		fn:    fn,
	}
	s.seq++
	heap.Push(&s.queue, e)
	return e
}

// Cancel a pending event. Returns false if the event was not pending.
// Cancelling a nil event is allowed.
func (s *Scheduler) Cancel(e *Event) bool {
	if !e.Pending() {
		return false
	}
	heap.Remove(&s.queue, e.index)
	return true
}

// Pending returns the number of events waiting to be run.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Next returns the time of the next pending event. Returns false if there are
// no pending events.
func (s *Scheduler) Next() (Time, bool) {
	if len(s.queue) == 0 {
		return 0, false
	}
	return s.queue[0].at, true
}

// RunNext runs the next pending event if it is scheduled at or before the
// limit. Virtual time is moved to the time of the event. Returns true if an
// event was run.
func (s *Scheduler) RunNext(limit Time) bool {
	if len(s.queue) == 0 || s.queue[0].at > limit {
		return false
	}
	e := heap.Pop(&s.queue).(*Event)
	s.now = e.at
	e.fn()
	return true
}

// AdvanceTo moves virtual time forward to the specified time, running all
// events scheduled at or before that time. Returns the number of events run.
//
// Time never moves backwards. A target time before the current time runs any
// events due at the current time and leaves the time unchanged.
func (s *Scheduler) AdvanceTo(t Time) int {
	if t < s.now {
		t = s.now
	}
	n := 0
	for s.RunNext(t) {
		n++
	}
	s.now = t
	return n
}

// Advance moves virtual time forward by the specified duration. Returns the
// number of events run.
func (s *Scheduler) Advance(d time.Duration) int {
	return s.AdvanceTo(s.now + Time(d))
}

// Restart discards all pending events and sets the current time. Used when
// restoring a savestate.
func (s *Scheduler) Restart(now Time) {
	for _, e := range s.queue {
		e.index = -1
	}
	s.queue = s.queue[:0]
	s.now = now
}
