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
	"github.com/socsim/wdtsim/hardware/signals"
	"github.com/socsim/wdtsim/logger"
)

// expire is called by the countdown engine when the counter reaches zero. The
// engine has stopped itself by the time expire is called.
func (wdt *Watchdog) expire() {
	// the engine only runs while the watchdog is enabled but a restored
	// snapshot might say otherwise
	if !wdt.control.Enabled() {
		return
	}

	switch {
	case wdt.control.IRQEnabled():
		wdt.setIRQ(true)

		// a counter with a period of zero is left stopped
		if wdt.reload == 0 {
			logger.Log(wdt.perm(), "watchdog", "counter expired with a reload value of zero: counter stopped")
			return
		}

		wdt.engine.SetCount(wdt.reload)
		wdt.engine.Start()

	case wdt.control.ResetEnabled():
		logger.Log(wdt.perm(), "watchdog", "counter expired: requesting system reset")
		if wdt.reset != nil {
			wdt.reset.RequestReset(signals.GuestWatchdogReset)
		}
	}
}
