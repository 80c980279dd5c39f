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

package countdown

import "github.com/socsim/wdtsim/hardware/clocks"

// State is the part of the Countdown that is saved and restored.
type State struct {
	Frequency clocks.Hz
	Running   bool
	Remaining uint32
}

// Snapshot returns the current state of the counter.
func (cd *Countdown) Snapshot() State {
	return State{
		Frequency: cd.frequency,
		Running:   cd.running,
		Remaining: cd.Count(),
	}
}

// Plumb restores a previously snapshotted state. A running counter continues
// from the current virtual time.
func (cd *Countdown) Plumb(state State) {
	if state.Frequency == 0 {
		panic("countdown: frequency cannot be zero")
	}
	cd.Stop()
	cd.frequency = state.Frequency
	cd.count = state.Remaining
	if state.Running {
		cd.Start()
	}
}

// Detach cancels any pending expiry. The counter is left stopped with the
// current count.
func (cd *Countdown) Detach() {
	cd.Stop()
}
