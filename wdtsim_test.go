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

package main

import (
	"context"
	"testing"
	"time"

	"github.com/socsim/wdtsim/environment"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/preferences"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/signals"
	"github.com/socsim/wdtsim/hardware/watchdog"
	"github.com/socsim/wdtsim/savestate"
	"github.com/socsim/wdtsim/test"
	"github.com/spf13/afero"
)

func newMachine(t *testing.T) *hardware.Machine {
	t.Helper()
	prefs, err := preferences.NewPreferences(afero.NewMemMapFs(), preferences.DefaultPrefsFile)
	test.DemandSuccess(t, err)
	mc, err := hardware.NewMachine(environment.NewEnvironment(environment.Main, prefs), nil)
	test.DemandSuccess(t, err)
	return mc
}

func newOpts(prefs string, load string) *platformOpts {
	prefsFile := preferences.DefaultPrefsFile
	reload := uint(3000)
	prescaler := uint(0)
	divider := uint(16)
	mode := modeIRQ
	return &platformOpts{
		prefs:     &prefs,
		prefsFile: &prefsFile,
		reload:    &reload,
		prescaler: &prescaler,
		divider:   &divider,
		mode:      &mode,
		load:      &load,
	}
}

func TestProgramControl(t *testing.T) {
	c, err := program{prescaler: 0, divider: 16, mode: "irq"}.control()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, uint32(watchdog.IRQEnable))

	c, err = program{prescaler: 0xff, divider: 128, mode: modeReset}.control()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, uint32(0xff00|0x18|watchdog.ResetEnable))

	c, err = program{prescaler: 1, divider: 32, mode: modeBoth}.control()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, uint32(0x0100|0x08|watchdog.IRQEnable|watchdog.ResetEnable))

	c, err = program{prescaler: 0, divider: 64, mode: modeNone}.control()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, c, uint32(0x10))

	_, err = program{prescaler: 0x100, divider: 16, mode: modeIRQ}.control()
	test.ExpectFailure(t, err)
	_, err = program{prescaler: 0, divider: 8, mode: modeIRQ}.control()
	test.ExpectFailure(t, err)
	_, err = program{prescaler: 0, divider: 16, mode: "sometimes"}.control()
	test.ExpectFailure(t, err)
}

func TestProgramApply(t *testing.T) {
	mc := newMachine(t)

	err := program{reload: 3000, prescaler: 0, divider: 16, mode: modeIRQ}.apply(mc)
	test.DemandSuccess(t, err)

	s := mc.Status()
	test.ExpectEquality(t, s.Running, true)
	test.ExpectEquality(t, s.Reload, uint32(3000))
	test.ExpectEquality(t, s.Count, uint32(3000))
	test.ExpectEquality(t, s.Control.IRQEnabled(), true)
	test.ExpectEquality(t, s.Control.ResetEnabled(), false)

	// 3000 ticks at 1.5MHz
	test.ExpectEquality(t, s.HasNext, true)
	test.ExpectEquality(t, s.Next, scheduler.Time(2*time.Millisecond))
}

func TestSessionWithAck(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, program{reload: 3000, divider: 16, mode: modeIRQ}.apply(mc))

	s, err := runSession(context.Background(), mc, 9*time.Millisecond, true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.end, scheduler.Time(9*time.Millisecond))
	test.ExpectEquality(t, s.irqs, 4)
	test.ExpectEquality(t, s.acks, 4)
	test.ExpectEquality(t, len(s.resets), 0)
	test.ExpectEquality(t, mc.Status().IRQ, false)
}

func TestSessionWithoutAck(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, program{reload: 3000, divider: 16, mode: modeIRQ}.apply(mc))

	// the interrupt line stays raised so there is only one rising edge
	s, err := runSession(context.Background(), mc, 9*time.Millisecond, false)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.irqs, 1)
	test.ExpectEquality(t, s.acks, 0)
	test.ExpectEquality(t, mc.Status().IRQ, true)
}

func TestSessionReset(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, program{reload: 3000, divider: 16, mode: modeReset}.apply(mc))

	s, err := runSession(context.Background(), mc, 9*time.Millisecond, true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.irqs, 0)
	test.DemandEquality(t, len(s.resets), 1)
	test.ExpectEquality(t, s.resets[0].Cause, signals.GuestWatchdogReset)
	test.ExpectEquality(t, s.resets[0].Time, scheduler.Time(2*time.Millisecond))

	// the watchdog is back in its power-on state with the counter stopped
	st := mc.Status()
	test.ExpectEquality(t, st.Control, watchdog.Control(watchdog.ControlReset))
	test.ExpectEquality(t, st.Running, false)
}

func TestSessionCancelled(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, program{reload: 3000, divider: 16, mode: modeIRQ}.apply(mc))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := runSession(ctx, mc, time.Second, false)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, s.end, s.start)
	test.ExpectEquality(t, s.irqs, 0)
}

func TestPlatformOpts(t *testing.T) {
	fs := afero.NewMemMapFs()

	mc, err := newOpts("platform.base::0x20000000", "").newMachine(fs, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, mc.Base(), uint32(0x20000000))
	test.ExpectEquality(t, mc.Status().Running, true)

	_, err = newOpts("platform.nosuchthing::1", "").newMachine(fs, nil)
	test.ExpectFailure(t, err)
}

func TestPlatformOptsLoad(t *testing.T) {
	fs := afero.NewMemMapFs()

	mc := newMachine(t)
	test.DemandSuccess(t, program{reload: 3000, divider: 16, mode: modeIRQ}.apply(mc))
	mc.Advance(time.Millisecond)
	test.DemandSuccess(t, savestate.Save(fs, "test.state", mc.Snapshot()))

	ld, err := newOpts("", "test.state").newMachine(fs, nil)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ld.Now(), scheduler.Time(time.Millisecond))
	test.ExpectEquality(t, ld.Status().Count, uint32(1500))
	test.ExpectEquality(t, ld.Status().Reload, uint32(3000))
}

func TestSessionZeroReload(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, program{reload: 0, divider: 16, mode: modeIRQ}.apply(mc))

	// the counter stops after the first expiry. acknowledging the interrupt
	// does not restart it
	s, err := runSession(context.Background(), mc, 5*time.Millisecond, true)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.end, scheduler.Time(5*time.Millisecond))
	test.ExpectEquality(t, s.irqs, 1)
	test.ExpectEquality(t, s.acks, 1)
	test.ExpectEquality(t, mc.Status().Running, false)
}
