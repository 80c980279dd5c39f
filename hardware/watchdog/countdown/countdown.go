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

// Package countdown implements a one-shot down counter clocked at a
// configurable frequency in virtual time.
//
// The counter does not decrement one tick at a time. Instead, the count is
// calculated from the virtual time elapsed since the counter was last
// anchored and a single event is scheduled for the moment the count reaches
// zero. When that event runs the counter stops itself and calls the expiry
// function. The counter never reloads itself.
package countdown

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/socsim/wdtsim/hardware/clocks"
	"github.com/socsim/wdtsim/hardware/scheduler"
)

// Scheduler is the part of the platform scheduler used by the Countdown.
type Scheduler interface {
	Now() scheduler.Time
	Schedule(at scheduler.Time, label string, fn func()) *scheduler.Event
	Cancel(e *scheduler.Event) bool
}

// Countdown is a one-shot down counter.
type Countdown struct {
	sched  Scheduler
	label  string
	expiry func()

	frequency clocks.Hz
	running   bool

	// if the counter is stopped, count is the current value of the counter.
	// if the counter is running, count is the value at the time of anchor
	count  uint32
	anchor scheduler.Time

	// the pending expiry event. nil if the counter is not running
	event *scheduler.Event

	// the expiry function is running
	expiring bool
}

// NewCountdown is the preferred method of initialisation for the Countdown
// type. The expiry function is called every time the count reaches zero. The
// counter is created stopped with a count of zero.
func NewCountdown(sched Scheduler, label string, frequency clocks.Hz, expiry func()) *Countdown {
	if frequency == 0 {
		panic("countdown: frequency cannot be zero")
	}
	return &Countdown{
		sched:     sched,
		label:     label,
		expiry:    expiry,
		frequency: frequency,
	}
}

func (cd *Countdown) String() string {
	if cd.running {
		return fmt.Sprintf("%s: count=%d freq=%s running", cd.label, cd.Count(), cd.frequency)
	}
	return fmt.Sprintf("%s: count=%d freq=%s stopped", cd.label, cd.count, cd.frequency)
}

// ticks returns the number of whole ticks that occur in the elapsed time.
func (cd *Countdown) ticks(elapsed scheduler.Time) uint64 {
	if elapsed <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(elapsed), uint64(cd.frequency))
	if hi >= clocks.NanosPerSecond {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, clocks.NanosPerSecond)
	return q
}

// duration returns the time taken for the number of ticks to elapse, rounded
// up to the next whole nanosecond.
func (cd *Countdown) duration(ticks uint32) scheduler.Time {
	f := uint64(cd.frequency)
	return scheduler.Time((uint64(ticks)*clocks.NanosPerSecond + f - 1) / f)
}

// Count returns the current value of the counter. Valid whether the counter
// is running or not.
func (cd *Countdown) Count() uint32 {
	if !cd.running {
		return cd.count
	}
	t := cd.ticks(cd.sched.Now() - cd.anchor)
	if t >= uint64(cd.count) {
		return 0
	}
	return cd.count - uint32(t)
}

// Running returns true if the counter is running.
func (cd *Countdown) Running() bool {
	return cd.running
}

// Frequency returns the current frequency of the counter.
func (cd *Countdown) Frequency() clocks.Hz {
	return cd.frequency
}

// SetFrequency changes the rate at which the counter decrements. The current
// count is preserved.
func (cd *Countdown) SetFrequency(frequency clocks.Hz) {
	if frequency == 0 {
		panic("countdown: frequency cannot be zero")
	}
	if frequency == cd.frequency {
		return
	}
	if cd.running {
		cd.count = cd.Count()
		cd.anchor = cd.sched.Now()
		cd.frequency = frequency
		cd.schedule()
		return
	}
	cd.frequency = frequency
}

// SetCount sets the current value of the counter. If the counter is running
// it continues to run from the new value.
func (cd *Countdown) SetCount(count uint32) {
	cd.count = count
	if cd.running {
		cd.anchor = cd.sched.Now()
		cd.schedule()
	}
}

// Start the counter. Starting a running counter has no effect. Starting a
// counter with a count of zero causes an immediate expiry, except when called
// from the expiry function, in which case the expiry happens one tick later.
func (cd *Countdown) Start() {
	if cd.running {
		return
	}
	cd.running = true
	cd.anchor = cd.sched.Now()
	cd.schedule()
}

// Stop the counter. The current count is retained. Stopping a stopped counter
// has no effect.
func (cd *Countdown) Stop() {
	if !cd.running {
		return
	}
	cd.count = cd.Count()
	cd.running = false
	cd.sched.Cancel(cd.event)
	cd.event = nil
}

// schedule the expiry event for the current count and anchor, replacing any
// pending event.
func (cd *Countdown) schedule() {
	if cd.event != nil {
		cd.sched.Cancel(cd.event)
	}

	// a zero count rearmed from the expiry function would otherwise expire
	// again at the same moment, forever
	d := cd.duration(cd.count)
	if d == 0 && cd.expiring {
		d = cd.duration(1)
	}

	cd.event = cd.sched.Schedule(cd.anchor+d, cd.label, cd.expire)
}

// expire is called by the scheduler when the count reaches zero. the counter
// is stopped before the expiry function is called so that the expiry function
// is free to restart it.
func (cd *Countdown) expire() {
	cd.event = nil
	cd.running = false
	cd.count = 0
	if cd.expiry != nil {
		cd.expiring = true
		cd.expiry()
		cd.expiring = false
	}
}

// Next returns the virtual time at which the counter will next reach zero.
// Returns false if the counter is not running.
func (cd *Countdown) Next() (scheduler.Time, bool) {
	if !cd.running || cd.event == nil {
		return 0, false
	}
	return cd.event.At(), true
}
