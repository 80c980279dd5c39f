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

// Package govern defines the states a running platform can be in. The states
// are returned by the continue check functions passed to the platform's Run()
// function.
package govern

// State indicates the platform's state.
type State int

// List of possible platform states.
//
// Initialising is the default state and should never be entered once the
// platform has begun running.
const (
	Initialising State = iota
	Paused
	Running
	Ending
)

func (s State) String() string {
	switch s {
	case Initialising:
		return "Initialising"
	case Paused:
		return "Paused"
	case Running:
		return "Running"
	case Ending:
		return "Ending"
	}

	return ""
}
