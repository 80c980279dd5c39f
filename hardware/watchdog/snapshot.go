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

package watchdog

import (
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware/clocks"
	"github.com/socsim/wdtsim/hardware/watchdog/countdown"
)

// Version of the State type. Increase this value whenever the State type
// changes.
const Version = 1

// Sentinal errors returned by Plumb() when the state cannot be restored.
const (
	UnsupportedVersion = "watchdog: unsupported state version (%d)"
	InvalidFrequency   = "watchdog: invalid frequency in state (%d)"
)

// State is the part of the watchdog that is saved and restored. Field order
// is significant.
type State struct {
	Version   int
	Control   uint32
	ClearInt  uint32
	IRQ       bool
	Frequency clocks.Hz
	Running   bool
	Remaining uint32
	Reload    uint32
}

// Snapshot returns a copy of the current watchdog state.
func (wdt *Watchdog) Snapshot() *State {
	cs := wdt.engine.Snapshot()
	return &State{
		Version:   Version,
		Control:   uint32(wdt.control),
		ClearInt:  wdt.clearInt,
		IRQ:       wdt.irqAsserted,
		Frequency: cs.Frequency,
		Running:   cs.Running,
		Remaining: cs.Remaining,
		Reload:    wdt.reload,
	}
}

// Validate returns an error if the state cannot be plumbed into a watchdog.
func (state *State) Validate() error {
	if state.Version != Version {
		return curated.Errorf(UnsupportedVersion, state.Version)
	}
	if state.Frequency == 0 {
		return curated.Errorf(InvalidFrequency, state.Frequency)
	}
	return nil
}

// Plumb restores a previously snapshotted state. The interrupt line is driven
// to the restored level. The watchdog is unchanged if an error is returned.
func (wdt *Watchdog) Plumb(state *State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	wdt.control = Control(state.Control & ControlMask)
	wdt.clearInt = state.ClearInt
	wdt.reload = state.Reload
	wdt.engine.Plumb(countdown.State{
		Frequency: state.Frequency,
		Running:   state.Running,
		Remaining: state.Remaining,
	})
	wdt.setIRQ(state.IRQ)

	return nil
}
