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
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/watchdog"
)

// State stores the platform sub-systems. It is produced by the Snapshot()
// function and can be restored with the Plumb() function.
type State struct {
	Time     scheduler.Time
	Watchdog *watchdog.State
}

// Snapshot creates a copy of a previously snapshotted platform State.
func (s *State) Snapshot() *State {
	n := *s
	if s.Watchdog != nil {
		w := *s.Watchdog
		n.Watchdog = &w
	}
	return &n
}

// Snapshot the state of the platform.
func (mc *Machine) Snapshot() *State {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	return mc.snapshot()
}

func (mc *Machine) snapshot() *State {
	return &State{
		Time:     mc.sched.Now(),
		Watchdog: mc.watchdog.Snapshot(),
	}
}

// Plumb a previously snapshotted state into the platform. Virtual time is set
// to the time of the snapshot and any pending events are discarded. The
// platform is unchanged if an error is returned.
func (mc *Machine) Plumb(state *State) error {
	if state == nil || state.Watchdog == nil {
		return curated.Errorf("machine: cannot plumb an incomplete state")
	}

	mc.crit.Lock()
	defer mc.crit.Unlock()

	// take another snapshot of the state before plumbing. we don't want the
	// machine to change what the caller has stored
	state = state.Snapshot()

	// the scheduler is restarted before the watchdog is plumbed so the state
	// must be checked first
	err := state.Watchdog.Validate()
	if err != nil {
		return curated.Errorf("machine: %v", err)
	}

	mc.sched.Restart(state.Time)
	err = mc.watchdog.Plumb(state.Watchdog)
	if err != nil {
		return curated.Errorf("machine: %v", err)
	}

	mc.resetPending = false
	mc.updateTime()

	return nil
}
