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

// Package watchdog models the watchdog timer found on Exynos4210 style
// system-on-chips.
//
// The watchdog is a 16 byte block of four 32 bit registers:
//
//	0x0  CONTROL  enable, interrupt/reset mode, clock divider and prescaler
//	0x4  RELOAD   the value loaded into the counter when it is (re)started
//	0x8  COUNT    the live counter
//	0xc  ACK      writing any value lowers the interrupt line
//
// The counter is clocked from the 24MHz peripheral clock divided by the
// prescaler and divider fields of the CONTROL register. When the counter
// reaches zero the watchdog either raises the interrupt line and reloads
// itself (if interrupts are enabled) or requests a reset of the platform (if
// resets are enabled). The reset is requested once; the counter is not
// reloaded afterwards.
//
// The watchdog has no knowledge of the bus it is connected to. Offsets passed
// to Read() and Write() are relative to the start of the register block.
// Collaborators are supplied to NewWatchdog(): a Scheduler on which countdown
// events are placed, an InterruptLine and a ResetRequester.
package watchdog
