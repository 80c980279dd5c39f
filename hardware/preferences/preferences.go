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

// Package preferences collates the preference values used by the simulated
// platform and its peripherals.
package preferences

import (
	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/prefs"
	"github.com/spf13/afero"
)

// DefaultPrefsFile is the name of the prefs file in the working directory.
const DefaultPrefsFile = "wdtsim.prefs"

// DefaultBase is the address at which the watchdog is mapped by default. It
// is the address of the watchdog on the Exynos4210 SoC.
const DefaultBase = 0x10060000

// Preferences defines and collates all the preference values used by the
// platform.
type Preferences struct {
	dsk *prefs.Disk

	// decode the divider field in the watchdog CONTROL register as if every
	// selection was the smallest divider (16). some guest images were
	// developed against a model with this behaviour
	DividerFallThrough prefs.Bool

	// the base address of the watchdog register block on the platform bus
	Base prefs.Int

	// register values are transferred big endian on the bus
	BigEndian prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the named file in the supplied
// filesystem. A missing file is not an error.
func NewPreferences(fs afero.Fs, path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(fs, path)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("watchdog.dividerfallthrough", &p.DividerFallThrough)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("platform.base", &p.Base)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("platform.bigendian", &p.BigEndian)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		// ignore missing prefs file errors
		if !curated.Is(err, prefs.NoPrefsFile) {
			return nil, err
		}
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	// errors are not possible for these values
	_ = p.DividerFallThrough.Set(false)
	_ = p.Base.Set(DefaultBase)
	_ = p.BigEndian.Set(false)
}

// Load current preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
