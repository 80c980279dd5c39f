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

// Package signals contains the output signals that peripherals use to
// communicate with the platform: level interrupt lines and reset requests.
package signals

import "fmt"

// Line is a level triggered interrupt line. The zero value is a lowered line
// with no listeners.
type Line struct {
	name  string
	level bool

	// number of rising edges since the line was created
	raised int

	listeners []func(level bool)
}

// NewLine is the preferred method of initialisation for the Line type.
func NewLine(name string) *Line {
	return &Line{name: name}
}

func (l *Line) String() string {
	if l.level {
		return fmt.Sprintf("%s: high", l.name)
	}
	return fmt.Sprintf("%s: low", l.name)
}

// SetLevel raises or lowers the line. Listeners are only notified when the
// level changes.
func (l *Line) SetLevel(high bool) {
	if l.level == high {
		return
	}
	l.level = high
	if high {
		l.raised++
	}
	for _, f := range l.listeners {
		f(high)
	}
}

// Raise the line.
func (l *Line) Raise() {
	l.SetLevel(true)
}

// Lower the line.
func (l *Line) Lower() {
	l.SetLevel(false)
}

// Level returns true if the line is raised.
func (l *Line) Level() bool {
	return l.level
}

// Raised returns the number of rising edges seen on the line.
func (l *Line) Raised() int {
	return l.raised
}

// AddListener adds a function to be called whenever the level of the line
// changes.
func (l *Line) AddListener(f func(level bool)) {
	l.listeners = append(l.listeners, f)
}

// ResetCause describes why a system reset was requested.
type ResetCause int

// List of valid ResetCause values.
const (
	PowerOn ResetCause = iota
	HostRequest
	GuestWatchdogReset
)

func (c ResetCause) String() string {
	switch c {
	case PowerOn:
		return "power on"
	case HostRequest:
		return "host request"
	case GuestWatchdogReset:
		return "guest watchdog reset"
	}
	return fmt.Sprintf("unknown reset cause (%d)", int(c))
}
