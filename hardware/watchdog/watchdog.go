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
	"fmt"

	"github.com/socsim/wdtsim/environment"
	"github.com/socsim/wdtsim/hardware/signals"
	"github.com/socsim/wdtsim/hardware/watchdog/countdown"
	"github.com/socsim/wdtsim/logger"
)

// InterruptLine is the output interrupt of the watchdog. The line is level
// triggered.
type InterruptLine interface {
	SetLevel(high bool)
}

// ResetRequester accepts requests to reset the platform.
type ResetRequester interface {
	RequestReset(cause signals.ResetCause)
}

// ResetRequesterFunc allows an ordinary function to be used as a
// ResetRequester.
type ResetRequesterFunc func(cause signals.ResetCause)

// RequestReset implements the ResetRequester interface.
func (f ResetRequesterFunc) RequestReset(cause signals.ResetCause) {
	f(cause)
}

// Watchdog is the watchdog timer peripheral.
type Watchdog struct {
	env *environment.Environment

	irq   InterruptLine
	reset ResetRequester

	control Control
	reload  uint32

	// the last value written to the ACK register. it has no effect other
	// than being preserved in the snapshot
	clearInt uint32

	// the level most recently driven onto the interrupt line
	irqAsserted bool

	engine *countdown.Countdown
}

// NewWatchdog is the preferred method of initialisation for the Watchdog
// type. The watchdog is reset to its power-on state before being returned.
//
// The environment can be nil, in which case guest errors are always logged
// and the divider field is decoded normally.
func NewWatchdog(env *environment.Environment, sched countdown.Scheduler, irq InterruptLine, reset ResetRequester) *Watchdog {
	wdt := &Watchdog{
		env:   env,
		irq:   irq,
		reset: reset,
	}
	wdt.engine = countdown.NewCountdown(sched, "watchdog", ComputeFrequency(ControlReset), wdt.expire)
	wdt.Reset()
	return wdt
}

// perm returns the logging permission for the watchdog.
func (wdt *Watchdog) perm() logger.Permission {
	if wdt.env == nil {
		return logger.Allow
	}
	return wdt.env
}

func (wdt *Watchdog) String() string {
	return fmt.Sprintf("CONTROL=%s RELOAD=%#08x COUNT=%#08x IRQ=%v freq=%s",
		wdt.control, wdt.reload, wdt.engine.Count(), wdt.irqAsserted, wdt.engine.Frequency())
}

// Reset the watchdog to its power-on state. The counter is left stopped even
// though the power-on value of CONTROL has the enable bit set.
func (wdt *Watchdog) Reset() {
	wdt.engine.Stop()
	wdt.control = ControlReset
	wdt.reload = ReloadReset
	wdt.clearInt = 0
	wdt.engine.SetFrequency(wdt.frequency())
	wdt.engine.SetCount(CountReset)
	wdt.setIRQ(false)
}

// Detach the watchdog from the platform. Any pending expiry is cancelled.
func (wdt *Watchdog) Detach() {
	wdt.engine.Detach()
}

// Read the register at the offset.
func (wdt *Watchdog) Read(offset uint32) uint32 {
	switch offset {
	case CONTROL:
		return uint32(wdt.control)
	case RELOAD:
		return wdt.reload
	case COUNT:
		return wdt.engine.Count()
	}
	logger.Logf(wdt.perm(), "watchdog", "bad read offset %#02x", offset)
	return 0
}

// Write the value to the register at the offset.
func (wdt *Watchdog) Write(offset uint32, value uint32) {
	switch offset {
	case CONTROL:
		wdt.writeControl(Control(value & ControlMask))
	case RELOAD:
		wdt.reload = value
	case COUNT:
		wdt.engine.SetCount(value)
		if !wdt.control.Enabled() {
			wdt.engine.Stop()
		}
	case ACK:
		wdt.clearInt = value
		wdt.setIRQ(false)
	default:
		logger.Logf(wdt.perm(), "watchdog", "bad write offset %#02x (value %#08x)", offset, value)
	}
}

func (wdt *Watchdog) writeControl(control Control) {
	prev := wdt.control
	wdt.control = control

	// the new frequency is applied before the counter is started so that the
	// first expiry uses the new rate. the count is not affected
	wdt.engine.SetFrequency(wdt.frequency())

	switch {
	case !prev.Enabled() && control.Enabled():
		wdt.engine.SetCount(wdt.reload)
		wdt.engine.Start()
	case prev.Enabled() && !control.Enabled():
		wdt.engine.Stop()
	}
}

func (wdt *Watchdog) setIRQ(high bool) {
	wdt.irqAsserted = high
	if wdt.irq != nil {
		wdt.irq.SetLevel(high)
	}
}

// Control returns the current value of the CONTROL register.
func (wdt *Watchdog) Control() Control {
	return wdt.control
}

// Reload returns the current value of the RELOAD register.
func (wdt *Watchdog) Reload() uint32 {
	return wdt.reload
}

// Count returns the live value of the counter.
func (wdt *Watchdog) Count() uint32 {
	return wdt.engine.Count()
}

// IRQ returns true if the watchdog is driving the interrupt line high.
func (wdt *Watchdog) IRQ() bool {
	return wdt.irqAsserted
}

// Running returns true if the counter is running.
func (wdt *Watchdog) Running() bool {
	return wdt.engine.Running()
}

// Engine returns the countdown engine. Used by the platform to find the time
// of the next expiry.
func (wdt *Watchdog) Engine() *countdown.Countdown {
	return wdt.engine
}
