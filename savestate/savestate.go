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

// Package savestate reads and writes platform snapshots as files.
//
// A savestate is a JSON document with a magic string, a format version, the
// virtual time at which the snapshot was taken and the state of the watchdog.
// Files are accessed through an afero.Fs so that savestates can be kept in
// memory as easily as on disk.
package savestate

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/scheduler"
	"github.com/socsim/wdtsim/hardware/watchdog"
	"github.com/spf13/afero"
)

// Magic identifies a savestate file.
const Magic = "wdtsim-savestate"

// Version of the savestate format.
const Version = 1

// Sentinal errors.
const (
	NotSavestate       = "savestate: not a savestate file"
	UnsupportedVersion = "savestate: unsupported version (%d)"
	Incomplete         = "savestate: incomplete savestate"
	FileError          = "savestate: %v"
)

// the on-disk representation of hardware.State
type document struct {
	Magic    string          `json:"magic"`
	Version  int             `json:"version"`
	Time     int64           `json:"time"`
	Watchdog *watchdog.State `json:"watchdog"`
}

// Encode writes the state to w.
func Encode(w io.Writer, state *hardware.State) error {
	if state == nil || state.Watchdog == nil {
		return curated.Errorf(Incomplete)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(document{
		Magic:    Magic,
		Version:  Version,
		Time:     int64(state.Time),
		Watchdog: state.Watchdog,
	})
	if err != nil {
		return curated.Errorf(FileError, err)
	}
	return nil
}

// Decode reads a state from r. The watchdog state is not validated. That
// happens when the state is plumbed into a Machine.
func Decode(r io.Reader) (*hardware.State, error) {
	var doc document
	err := json.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, curated.Errorf(NotSavestate)
	}
	if doc.Magic != Magic {
		return nil, curated.Errorf(NotSavestate)
	}
	if doc.Version != Version {
		return nil, curated.Errorf(UnsupportedVersion, doc.Version)
	}
	if doc.Watchdog == nil || doc.Time < 0 {
		return nil, curated.Errorf(Incomplete)
	}
	return &hardware.State{
		Time:     scheduler.Time(doc.Time),
		Watchdog: doc.Watchdog,
	}, nil
}

// Save the state to the named file.
func Save(fs afero.Fs, path string, state *hardware.State) error {
	var b bytes.Buffer
	err := Encode(&b, state)
	if err != nil {
		return err
	}

	// write to a temporary file first so that a failed write does not
	// destroy an existing savestate
	tmp := path + ".tmp"
	err = afero.WriteFile(fs, tmp, b.Bytes(), 0644)
	if err != nil {
		return curated.Errorf(FileError, err)
	}
	err = fs.Rename(tmp, path)
	if err != nil {
		_ = fs.Remove(tmp)
		return curated.Errorf(FileError, err)
	}

	return nil
}

// Load a state from the named file.
func Load(fs afero.Fs, path string) (*hardware.State, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, curated.Errorf(FileError, err)
	}
	defer f.Close()
	return Decode(f)
}
