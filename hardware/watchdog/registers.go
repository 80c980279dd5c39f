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
	"strings"
)

// Register offsets from the start of the watchdog block.
const (
	CONTROL = 0x0
	RELOAD  = 0x4
	COUNT   = 0x8
	ACK     = 0xc
)

// Size of the register block in bytes.
const Size = 0x10

// RegisterName returns the name of the register at the offset. Returns the
// empty string if there is no register at that offset.
func RegisterName(offset uint32) string {
	switch offset {
	case CONTROL:
		return "CONTROL"
	case RELOAD:
		return "RELOAD"
	case COUNT:
		return "COUNT"
	case ACK:
		return "ACK"
	}
	return ""
}

// Bits in the CONTROL register.
const (
	ResetEnable    = 0x0001
	IRQEnable      = 0x0004
	DividerMask    = 0x0018
	DividerShift   = 3
	Enable         = 0x0020
	PrescalerMask  = 0xff00
	PrescalerShift = 8

	// ControlMask is the union of all documented CONTROL fields. Undocumented
	// bits are discarded when the register is written
	ControlMask = ResetEnable | IRQEnable | DividerMask | Enable | PrescalerMask
)

// Power-on values of the registers.
const (
	ControlReset = 0x00008021
	ReloadReset  = 0x00008000
	CountReset   = 0x00008000
)

// Control is the value of the CONTROL register.
type Control uint32

// Enabled returns true if the counter is enabled.
func (c Control) Enabled() bool {
	return c&Enable == Enable
}

// IRQEnabled returns true if expiry raises the interrupt line.
func (c Control) IRQEnabled() bool {
	return c&IRQEnable == IRQEnable
}

// ResetEnabled returns true if expiry requests a platform reset. The
// interrupt mode takes precedence if both modes are enabled.
func (c Control) ResetEnabled() bool {
	return c&ResetEnable == ResetEnable
}

// Prescaler returns the value of the prescaler field. The peripheral clock is
// divided by Prescaler()+1.
func (c Control) Prescaler() uint32 {
	return (uint32(c) & PrescalerMask) >> PrescalerShift
}

// DividerSelect returns the two bit value of the divider field.
func (c Control) DividerSelect() uint32 {
	return (uint32(c) & DividerMask) >> DividerShift
}

func (c Control) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%#08x", uint32(c)))
	if c.Enabled() {
		s.WriteString(" EN")
	}
	if c.IRQEnabled() {
		s.WriteString(" IRQ")
	}
	if c.ResetEnabled() {
		s.WriteString(" RST")
	}
	s.WriteString(fmt.Sprintf(" div=%d pre=%d", Divider(c), c.Prescaler()))
	return s.String()
}
