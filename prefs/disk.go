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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/socsim/wdtsim/curated"
	"github.com/spf13/afero"
)

// WarningBoilerPlate is written as the first line of every prefs file.
const WarningBoilerPlate = "*** do not edit this file by hand while the simulation is running ***"

// KeySep is the separator between the key and value in a prefs file.
const KeySep = " :: "

// Sentinal error patterns.
const (
	NoPrefsFile = "prefs: no prefs file (%s)"
	InvalidKey  = "prefs: invalid key (%s)"
	DiskError   = "prefs: %v"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	fs      afero.Fs
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(fs afero.Fs, path string) (*Disk, error) {
	return &Disk{
		fs:      fs,
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

func (dsk *Disk) String() string {
	keys := dsk.keys()
	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, dsk.entries[k]))
	}
	return s.String()
}

func (dsk *Disk) keys() []string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Add preference value to list of values to store/load from disk. Keys
// cannot contain spaces or the "::" sequence.
func (dsk *Disk) Add(key string, p pref) error {
	if key == "" || strings.ContainsAny(key, " \t\n") || strings.Contains(key, "::") {
		return curated.Errorf(InvalidKey, key)
	}
	dsk.entries[key] = p
	return nil
}

// Reset all registered values to their zero value.
func (dsk *Disk) Reset() error {
	for _, k := range dsk.keys() {
		if err := dsk.entries[k].Reset(); err != nil {
			return curated.Errorf(DiskError, err)
		}
	}
	return nil
}

// read the prefs file. returns the map of key/value strings.
func (dsk *Disk) read() (map[string]string, error) {
	f, err := dsk.fs.Open(dsk.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, curated.Errorf(NoPrefsFile, dsk.path)
		}
		return nil, curated.Errorf(DiskError, err)
	}
	defer f.Close()

	data := make(map[string]string)

	scanner := bufio.NewScanner(f)

	// first line must be the warning boilerplate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return nil, curated.Errorf(DiskError, fmt.Sprintf("%s is not a prefs file", dsk.path))
	}

	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), KeySep, 2)
		if len(kv) != 2 {
			continue
		}
		data[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(DiskError, err)
	}

	return data, nil
}

// Save current preference values to disk. Entries in an existing file which
// are not registered with this Disk are preserved.
func (dsk *Disk) Save() error {
	data, err := dsk.read()
	if err != nil {
		if !curated.Is(err, NoPrefsFile) {
			return err
		}
		data = make(map[string]string)
	}

	for k, p := range dsk.entries {
		data[k] = p.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, KeySep, data[k]))
	}

	if err := afero.WriteFile(dsk.fs, dsk.path, []byte(s.String()), 0o644); err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load preference values from disk. Values on the top of the command line
// stack take priority over the values in the file. A missing prefs file is
// returned as a NoPrefsFile error but command line values are still applied.
func (dsk *Disk) Load() error {
	data, err := dsk.read()
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}

	for _, k := range dsk.keys() {
		if ok, v := GetCommandLinePref(k); ok {
			if serr := dsk.entries[k].Set(v); serr != nil {
				return curated.Errorf(DiskError, serr)
			}
			continue
		}
		if v, ok := data[k]; ok {
			if serr := dsk.entries[k].Set(v); serr != nil {
				return curated.Errorf(DiskError, serr)
			}
		}
	}

	return err
}
