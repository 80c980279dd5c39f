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
	"fmt"
	"strings"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/watchdog"
)

// expiry modes accepted by the -mode flag.
const (
	modeIRQ   = "IRQ"
	modeReset = "RESET"
	modeBoth  = "BOTH"
	modeNone  = "NONE"
)

// program describes how the watchdog is set up by the host before a session
// starts.
type program struct {
	reload    uint32
	prescaler uint32
	divider   uint32
	mode      string
}

func (p program) String() string {
	return fmt.Sprintf("reload=%#x prescaler=%d divider=%d mode=%s", p.reload, p.prescaler, p.divider, p.mode)
}

// control returns the value of the CONTROL register described by the program.
// the enable bit is not included.
func (p program) control() (uint32, error) {
	if p.prescaler > 0xff {
		return 0, curated.Errorf("program: prescaler out of range (%d)", p.prescaler)
	}

	var sel uint32
	switch p.divider {
	case 16:
		sel = 0
	case 32:
		sel = 1
	case 64:
		sel = 2
	case 128:
		sel = 3
	default:
		return 0, curated.Errorf("program: unsupported divider (%d)", p.divider)
	}

	c := p.prescaler<<watchdog.PrescalerShift | sel<<watchdog.DividerShift

	switch strings.ToUpper(p.mode) {
	case modeIRQ:
		c |= watchdog.IRQEnable
	case modeReset:
		c |= watchdog.ResetEnable
	case modeBoth:
		c |= watchdog.IRQEnable | watchdog.ResetEnable
	case modeNone:
	default:
		return 0, curated.Errorf("program: unknown mode (%s)", p.mode)
	}

	return c, nil
}

// apply the program to the watchdog of the machine. the counter is started
// with the reload value.
func (p program) apply(mc *hardware.Machine) error {
	c, err := p.control()
	if err != nil {
		return err
	}

	base := mc.Base()

	err = mc.Write(base+watchdog.RELOAD, p.reload)
	if err != nil {
		return err
	}

	// the counter only starts on a rising edge of the enable bit so the
	// control register is written twice
	err = mc.Write(base+watchdog.CONTROL, c)
	if err != nil {
		return err
	}
	return mc.Write(base+watchdog.CONTROL, c|watchdog.Enable)
}
