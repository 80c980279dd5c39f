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

// Package hardware is the base package for the simulated platform. The
// Machine type collects the platform's components: the scheduler on which
// virtual time is advanced, the bus, the watchdog's interrupt line and the
// watchdog itself.
//
// All entry points to the Machine are serialised by a single mutex. This
// means that the watchdog is never accessed concurrently, even when the
// Machine is driven from more than one goroutine (for example, an interactive
// monitor and a metrics server).
//
// System resets requested by a peripheral are deferred until the event that
// requested them has completed. The reset is recorded in the reset log and
// the peripherals are returned to their power-on state.
//
// Snapshot() and Plumb() save and restore the state of the Machine. The
// snapshot contains the current virtual time and the state of the watchdog.
// Pending events are not part of the snapshot. They are recreated by the
// watchdog when its state is plumbed in.
package hardware
