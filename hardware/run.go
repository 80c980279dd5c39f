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

package hardware

import (
	"time"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/govern"
	"github.com/socsim/wdtsim/hardware/scheduler"
)

// PerformanceBrake is a standard value that can be used to filter out
// expensive code paths within a continueCheck() implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return govern.Ending, nil
//		}
//	}
//	return govern.Running, nil
const PerformanceBrake = 100

// Now returns the current virtual time.
func (mc *Machine) Now() scheduler.Time {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	return mc.sched.Now()
}

// Step runs the next pending event if it is due at or before the limit.
// Returns true if an event was run. A reset requested by the event is
// performed before Step returns.
func (mc *Machine) Step(limit scheduler.Time) bool {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	ok := mc.sched.RunNext(limit)
	if ok {
		mc.resolveReset()
		mc.updateTime()
	}
	return ok
}

// AdvanceTo moves virtual time forward to the specified time, running every
// event that falls due. Returns the number of events run.
func (mc *Machine) AdvanceTo(t scheduler.Time) int {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	n := 0
	for mc.sched.RunNext(t) {
		n++
		mc.resolveReset()
	}

	// RunNext() does not move time forward if there is no event at the
	// target time
	mc.sched.AdvanceTo(t)
	mc.updateTime()

	return n
}

// Advance moves virtual time forward by the duration. Returns the number of
// events run.
func (mc *Machine) Advance(d time.Duration) int {
	return mc.AdvanceTo(mc.Now() + scheduler.Time(d))
}

func (mc *Machine) updateTime() {
	if mc.metrics != nil {
		mc.metrics.Time(mc.sched.Now())
	}
}

// Run advances virtual time in steps of the quantum for as long as the
// continueCheck function returns govern.Running. A Paused state does not
// advance virtual time but continueCheck is still called.
//
// The continueCheck function is called without the critical section being
// held so it is free to access the Machine.
func (mc *Machine) Run(quantum time.Duration, continueCheck func() (govern.State, error)) error {
	if quantum <= 0 {
		return curated.Errorf("machine: quantum must be positive (%v)", quantum)
	}
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	state := govern.Running

	for state != govern.Ending {
		switch state {
		case govern.Running:
			mc.Advance(quantum)
		case govern.Paused:
		default:
			return curated.Errorf("machine: unsupported state (%s) in Run() function", state)
		}

		var err error
		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}
