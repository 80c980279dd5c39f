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

import "github.com/socsim/wdtsim/hardware/clocks"

// the clock dividers indexed by the divider field of the CONTROL register.
var dividers = [4]uint32{16, 32, 64, 128}

// Divider returns the clock divider selected by the CONTROL register.
func Divider(c Control) uint32 {
	return dividers[c.DividerSelect()]
}

// DividerFallThrough returns the clock divider as decoded by some earlier
// models of the watchdog, in which every selection resolved to the smallest
// divider.
func DividerFallThrough(_ Control) uint32 {
	return dividers[0]
}

// ComputeFrequency returns the frequency at which the counter decrements for
// the CONTROL value. The result is never zero.
func ComputeFrequency(c Control) clocks.Hz {
	return frequency(c, Divider(c))
}

// ComputeFrequencyFallThrough is the same as ComputeFrequency() but with the
// divider decoded by DividerFallThrough().
func ComputeFrequencyFallThrough(c Control) clocks.Hz {
	return frequency(c, DividerFallThrough(c))
}

func frequency(c Control, divider uint32) clocks.Hz {
	// the largest value of (prescaler+1)*divider is 256*128, which is
	// much smaller than PCLK
	return clocks.PCLK / clocks.Hz((c.Prescaler()+1)*divider)
}

// frequency decoded according to the current preferences. without
// preferences the divider is decoded normally.
func (wdt *Watchdog) frequency() clocks.Hz {
	if wdt.env != nil && wdt.env.Prefs != nil && wdt.env.Prefs.DividerFallThrough.Get().(bool) {
		return ComputeFrequencyFallThrough(wdt.control)
	}
	return ComputeFrequency(wdt.control)
}
