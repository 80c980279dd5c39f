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

// Package clocks defines the constant values that define the speed of the
// clocks feeding the simulated peripherals, along with the types used to
// express frequencies and virtual time.
package clocks

import "fmt"

// Hz is a frequency in cycles per second.
type Hz uint32

func (f Hz) String() string {
	switch {
	case f >= 1_000_000 && f%1000 == 0:
		return fmt.Sprintf("%.3fMHz", float64(f)/1e6)
	case f >= 1000:
		return fmt.Sprintf("%.3fkHz", float64(f)/1e3)
	}
	return fmt.Sprintf("%dHz", uint32(f))
}

// PCLK is the peripheral clock feeding the watchdog prescaler.
const PCLK Hz = 24_000_000

// NanosPerSecond is the number of virtual time units in one second.
const NanosPerSecond = 1_000_000_000
