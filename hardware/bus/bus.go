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

// Package bus connects memory mapped devices to the platform address space.
//
// Devices are mapped into the address space with Map(). Accesses are always
// four bytes wide and aligned on a four byte boundary. The bytes of an access
// are converted to and from register values with the byte order supplied to
// NewBus().
//
// Accesses that cannot be completed are returned as curated errors. The
// patterns are exported so that callers can check for specific faults.
package bus

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/socsim/wdtsim/curated"
)

// Sentinal errors returned by the bus.
const (
	UnmappedAddress   = "bus: unmapped address (%#08x)"
	UnalignedAccess   = "bus: unaligned access (%#08x)"
	UnsupportedWidth  = "bus: unsupported access width (%d bytes)"
	OverlappingRegion = "bus: region %s overlaps %s"
	InvalidRegion     = "bus: invalid region %s"
	UnknownRegion     = "bus: unknown region %s"
)

// AccessWidth is the only access width supported by the bus.
const AccessWidth = 4

// Device is a memory mapped device. Offsets are relative to the start of the
// device's region and are always aligned on a four byte boundary.
type Device interface {
	Read(offset uint32) uint32
	Write(offset uint32, value uint32)
}

type region struct {
	name string
	base uint32
	size uint32
	dev  Device
}

// end returns the first address after the region. the result may be outside
// the 32 bit address space.
func (r region) end() uint64 {
	return uint64(r.base) + uint64(r.size)
}

func (r region) contains(addr uint32) bool {
	return addr >= r.base && uint64(addr) < r.end()
}

func (r region) String() string {
	return fmt.Sprintf("%s [%#08x-%#08x]", r.name, r.base, r.end()-1)
}

// Bus is the platform address space.
type Bus struct {
	order   binary.ByteOrder
	regions []region
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus(order binary.ByteOrder) *Bus {
	return &Bus{
		order: order,
	}
}

func (b *Bus) String() string {
	s := strings.Builder{}
	for _, r := range b.regions {
		s.WriteString(r.String())
		s.WriteString("\n")
	}
	return s.String()
}

// ByteOrder returns the byte order used to decode accesses.
func (b *Bus) ByteOrder() binary.ByteOrder {
	return b.order
}

// Map a device into the address space. The region must be a non-zero
// multiple of four bytes in size, must start on a four byte boundary and must
// not overlap an existing region.
func (b *Bus) Map(name string, base uint32, size uint32, dev Device) error {
	r := region{name: name, base: base, size: size, dev: dev}

	if size == 0 || size%AccessWidth != 0 || base%AccessWidth != 0 || r.end() > 1<<32 {
		return curated.Errorf(InvalidRegion, r)
	}

	for _, o := range b.regions {
		if uint64(r.base) < o.end() && uint64(o.base) < r.end() {
			return curated.Errorf(OverlappingRegion, r, o)
		}
	}

	b.regions = append(b.regions, r)
	sort.Slice(b.regions, func(i, j int) bool {
		return b.regions[i].base < b.regions[j].base
	})

	return nil
}

// Unmap removes the named region from the address space.
func (b *Bus) Unmap(name string) error {
	for i, r := range b.regions {
		if r.name == name {
			b.regions = append(b.regions[:i], b.regions[i+1:]...)
			return nil
		}
	}
	return curated.Errorf(UnknownRegion, name)
}

// find the region and offset for an access at the address.
func (b *Bus) find(addr uint32) (region, uint32, error) {
	if addr%AccessWidth != 0 {
		return region{}, 0, curated.Errorf(UnalignedAccess, addr)
	}

	i := sort.Search(len(b.regions), func(i int) bool {
		return uint64(addr) < b.regions[i].end()
	})
	if i < len(b.regions) && b.regions[i].contains(addr) {
		return b.regions[i], addr - b.regions[i].base, nil
	}

	return region{}, 0, curated.Errorf(UnmappedAddress, addr)
}

// Read32 returns the register value at the address.
func (b *Bus) Read32(addr uint32) (uint32, error) {
	r, offset, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	return r.dev.Read(offset), nil
}

// Write32 writes the register value to the address.
func (b *Bus) Write32(addr uint32, value uint32) error {
	r, offset, err := b.find(addr)
	if err != nil {
		return err
	}
	r.dev.Write(offset, value)
	return nil
}

// Read the bytes at the address into the data slice. The length of data must
// be four.
func (b *Bus) Read(addr uint32, data []byte) error {
	if len(data) != AccessWidth {
		return curated.Errorf(UnsupportedWidth, len(data))
	}
	v, err := b.Read32(addr)
	if err != nil {
		return err
	}
	b.order.PutUint32(data, v)
	return nil
}

// Write the bytes in the data slice to the address. The length of data must
// be four.
func (b *Bus) Write(addr uint32, data []byte) error {
	if len(data) != AccessWidth {
		return curated.Errorf(UnsupportedWidth, len(data))
	}
	return b.Write32(addr, b.order.Uint32(data))
}
