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

package hardware

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/environment"
	"github.com/socsim/wdtsim/hardware/bus"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/signals"
	"github.com/socsim/wdtsim/hardware/watchdog"
	"github.com/socsim/wdtsim/logger"
	"github.com/socsim/wdtsim/metrics"
)

// the name of the watchdog region on the bus
const watchdogRegion = "watchdog"

// ResetRecord is an entry in the Machine's reset log.
type ResetRecord struct {
	Time  scheduler.Time
	Cause signals.ResetCause
}

func (r ResetRecord) String() string {
	return fmt.Sprintf("%s at %s", r.Cause, r.Time)
}

// Machine is the container for the simulated platform.
type Machine struct {
	crit sync.Mutex

	env *environment.Environment

	sched    *scheduler.Scheduler
	bus      *bus.Bus
	irq      *signals.Line
	watchdog *watchdog.Watchdog

	// metrics is optional and may be nil
	metrics *metrics.Metrics

	// the address of the watchdog on the bus
	base uint32

	// a reset requested during an event. the reset is performed once the
	// event has completed
	resetPending bool
	resetCause   signals.ResetCause

	resetLog       []ResetRecord
	resetListeners []func(ResetRecord)
	irqListeners   []func(scheduler.Time, bool)
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The metrics argument can be nil.
func NewMachine(env *environment.Environment, m *metrics.Metrics) (*Machine, error) {
	mc := &Machine{
		env:     env,
		sched:   scheduler.NewScheduler(),
		irq:     signals.NewLine("watchdog irq"),
		metrics: m,
	}

	if env.Prefs.BigEndian.Get().(bool) {
		mc.bus = bus.NewBus(binary.BigEndian)
	} else {
		mc.bus = bus.NewBus(binary.LittleEndian)
	}

	base := env.Prefs.Base.Get().(int64)
	if base < 0 || base > 0xffffffff {
		return nil, curated.Errorf("machine: base address out of range (%#x)", base)
	}
	mc.base = uint32(base)

	mc.irq.AddListener(mc.irqChanged)

	mc.watchdog = watchdog.NewWatchdog(env, mc.sched, mc.irq, watchdog.ResetRequesterFunc(mc.requestReset))

	err := mc.bus.Map(watchdogRegion, mc.base, watchdog.Size, mc.watchdog)
	if err != nil {
		return nil, curated.Errorf("machine: %v", err)
	}

	return mc, nil
}

func (mc *Machine) String() string {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	return fmt.Sprintf("%s %s", mc.sched.Now(), mc.watchdog)
}

// Base returns the address of the watchdog on the bus.
func (mc *Machine) Base() uint32 {
	return mc.base
}

// irqChanged is called by the interrupt line whenever its level changes
func (mc *Machine) irqChanged(level bool) {
	if mc.metrics != nil {
		mc.metrics.IRQ(level)
	}
	for _, f := range mc.irqListeners {
		f(mc.sched.Now(), level)
	}
}

// requestReset implements the watchdog.ResetRequester interface
func (mc *Machine) requestReset(cause signals.ResetCause) {
	logger.Logf(mc.env, "machine", "reset requested: %s at %s", cause, mc.sched.Now())
	if mc.metrics != nil {
		mc.metrics.ResetRequested(cause)
	}
	mc.resetPending = true
	mc.resetCause = cause
}

// resolveReset performs any reset requested by the most recent event
func (mc *Machine) resolveReset() {
	if !mc.resetPending {
		return
	}
	mc.resetPending = false
	mc.reset(mc.resetCause)
}

// reset all peripherals and record the reset. the critical section must be
// held
func (mc *Machine) reset(cause signals.ResetCause) {
	mc.watchdog.Reset()

	r := ResetRecord{Time: mc.sched.Now(), Cause: cause}
	mc.resetLog = append(mc.resetLog, r)
	if mc.metrics != nil {
		mc.metrics.Resets.Inc()
	}
	for _, f := range mc.resetListeners {
		f(r)
	}
}

// Reset the platform at the request of the host. The reset is recorded in the
// reset log.
func (mc *Machine) Reset() {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	mc.reset(signals.HostRequest)
}

// ResetLog returns a copy of the reset log.
func (mc *Machine) ResetLog() []ResetRecord {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	l := make([]ResetRecord, len(mc.resetLog))
	copy(l, mc.resetLog)
	return l
}

// AddResetListener adds a function to be called whenever the platform is
// reset. The function is called with the Machine's critical section held and
// must not call back into the Machine.
func (mc *Machine) AddResetListener(f func(ResetRecord)) {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	mc.resetListeners = append(mc.resetListeners, f)
}

// AddIRQListener adds a function to be called whenever the level of the
// watchdog interrupt line changes. The same restrictions as for
// AddResetListener() apply.
func (mc *Machine) AddIRQListener(f func(t scheduler.Time, level bool)) {
	mc.crit.Lock()
	defer mc.crit.Unlock()
	mc.irqListeners = append(mc.irqListeners, f)
}

// Read the 32 bit register value at the bus address.
func (mc *Machine) Read(addr uint32) (uint32, error) {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	v, err := mc.bus.Read32(addr)
	if mc.metrics != nil {
		mc.metrics.BusAccess(metrics.OpRead, err)
	}
	return v, err
}

// Write the 32 bit register value to the bus address.
func (mc *Machine) Write(addr uint32, value uint32) error {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	err := mc.bus.Write32(addr, value)
	if mc.metrics != nil {
		mc.metrics.BusAccess(metrics.OpWrite, err)
	}
	return err
}

// ReadBytes reads the register at the bus address into data. Bytes are
// ordered according to the platform's byte order preference.
func (mc *Machine) ReadBytes(addr uint32, data []byte) error {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	err := mc.bus.Read(addr, data)
	if mc.metrics != nil {
		mc.metrics.BusAccess(metrics.OpRead, err)
	}
	return err
}

// WriteBytes writes data to the register at the bus address.
func (mc *Machine) WriteBytes(addr uint32, data []byte) error {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	err := mc.bus.Write(addr, data)
	if mc.metrics != nil {
		mc.metrics.BusAccess(metrics.OpWrite, err)
	}
	return err
}

// Status is a summary of the platform's state at a moment in virtual time.
type Status struct {
	Time     scheduler.Time
	Control  watchdog.Control
	Reload   uint32
	Count    uint32
	IRQ      bool
	Running  bool
	Resets   int
	Next     scheduler.Time
	HasNext  bool
	Watchdog string
}

// Status returns a summary of the platform's current state.
func (mc *Machine) Status() Status {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	s := Status{
		Time:     mc.sched.Now(),
		Control:  mc.watchdog.Control(),
		Reload:   mc.watchdog.Reload(),
		Count:    mc.watchdog.Count(),
		IRQ:      mc.watchdog.IRQ(),
		Running:  mc.watchdog.Running(),
		Resets:   len(mc.resetLog),
		Watchdog: mc.watchdog.String(),
	}
	s.Next, s.HasNext = mc.sched.Next()

	return s
}

// Detach the watchdog from the platform. Any pending watchdog event is
// cancelled and the watchdog is removed from the bus.
func (mc *Machine) Detach() error {
	mc.crit.Lock()
	defer mc.crit.Unlock()

	mc.watchdog.Detach()
	return mc.bus.Unmap(watchdogRegion)
}
