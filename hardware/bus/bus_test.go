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

package bus_test

import (
	"encoding/binary"
	"testing"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware/bus"
	"github.com/socsim/wdtsim/test"
)

// a device of four registers that remembers what is written to it
type regs struct {
	values [4]uint32
}

func (r *regs) Read(offset uint32) uint32 {
	return r.values[offset/4]
}

func (r *regs) Write(offset uint32, value uint32) {
	r.values[offset/4] = value
}

func TestMapping(t *testing.T) {
	b := bus.NewBus(binary.LittleEndian)

	a := &regs{}
	c := &regs{}
	test.ExpectSuccess(t, b.Map("a", 0x1000, 0x10, a))
	test.ExpectSuccess(t, b.Map("c", 0x2000, 0x10, c))

	test.ExpectSuccess(t, b.Write32(0x1004, 0x11223344))
	test.ExpectSuccess(t, b.Write32(0x200c, 0xaabbccdd))
	test.ExpectEquality(t, a.values[1], uint32(0x11223344))
	test.ExpectEquality(t, c.values[3], uint32(0xaabbccdd))

	v, err := b.Read32(0x1004)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(0x11223344))

	// either side of the mapped regions
	_, err = b.Read32(0x0ffc)
	test.ExpectSuccess(t, curated.Is(err, bus.UnmappedAddress))
	_, err = b.Read32(0x1010)
	test.ExpectSuccess(t, curated.Is(err, bus.UnmappedAddress))
	err = b.Write32(0x2010, 0)
	test.ExpectSuccess(t, curated.Is(err, bus.UnmappedAddress))

	test.ExpectSuccess(t, b.Unmap("a"))
	_, err = b.Read32(0x1004)
	test.ExpectSuccess(t, curated.Is(err, bus.UnmappedAddress))
	test.ExpectSuccess(t, curated.Is(b.Unmap("a"), bus.UnknownRegion))
}

func TestInvalidRegions(t *testing.T) {
	b := bus.NewBus(binary.LittleEndian)

	test.ExpectSuccess(t, b.Map("a", 0x1000, 0x10, &regs{}))

	test.ExpectSuccess(t, curated.Is(b.Map("b", 0x100c, 0x10, &regs{}), bus.OverlappingRegion))
	test.ExpectSuccess(t, curated.Is(b.Map("b", 0x0ff0, 0x20, &regs{}), bus.OverlappingRegion))
	test.ExpectSuccess(t, curated.Is(b.Map("b", 0x2000, 0, &regs{}), bus.InvalidRegion))
	test.ExpectSuccess(t, curated.Is(b.Map("b", 0x2002, 0x10, &regs{}), bus.InvalidRegion))
	test.ExpectSuccess(t, curated.Is(b.Map("b", 0x2000, 0x0e, &regs{}), bus.InvalidRegion))
	test.ExpectSuccess(t, curated.Is(b.Map("b", 0xfffffff0, 0x20, &regs{}), bus.InvalidRegion))

	// adjacent regions are allowed. including the top of the address space
	test.ExpectSuccess(t, b.Map("b", 0x1010, 0x10, &regs{}))
	test.ExpectSuccess(t, b.Map("c", 0x0ff0, 0x10, &regs{}))
	test.ExpectSuccess(t, b.Map("d", 0xfffffff0, 0x10, &regs{}))

	_, err := b.Read32(0xfffffffc)
	test.ExpectSuccess(t, err)
}

func TestAccessFaults(t *testing.T) {
	b := bus.NewBus(binary.LittleEndian)
	test.ExpectSuccess(t, b.Map("a", 0x1000, 0x10, &regs{}))

	_, err := b.Read32(0x1002)
	test.ExpectSuccess(t, curated.Is(err, bus.UnalignedAccess))

	err = b.Read(0x1000, make([]byte, 2))
	test.ExpectSuccess(t, curated.Is(err, bus.UnsupportedWidth))
	err = b.Write(0x1000, make([]byte, 8))
	test.ExpectSuccess(t, curated.Is(err, bus.UnsupportedWidth))
}

func TestByteOrder(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		b := bus.NewBus(order)
		r := &regs{}
		test.DemandSuccess(t, b.Map("a", 0, 0x10, r))

		test.ExpectSuccess(t, b.Write(0x8, []byte{0x01, 0x02, 0x03, 0x04}))
		if order == binary.LittleEndian {
			test.ExpectEquality(t, r.values[2], uint32(0x04030201), order)
		} else {
			test.ExpectEquality(t, r.values[2], uint32(0x01020304), order)
		}

		data := make([]byte, 4)
		test.ExpectSuccess(t, b.Read(0x8, data))
		test.ExpectEquality(t, string(data), "\x01\x02\x03\x04", order)
	}
}
