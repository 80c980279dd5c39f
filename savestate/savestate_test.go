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

package savestate_test

import (
	"strings"
	"testing"

	"github.com/socsim/wdtsim/curated"
	"github.com/socsim/wdtsim/environment"
	"github.com/socsim/wdtsim/hardware"
	"github.com/socsim/wdtsim/hardware/preferences"
	"github.com/socsim/wdtsim/hardware/watchdog"
	"github.com/socsim/wdtsim/savestate"
	"github.com/socsim/wdtsim/test"
	"github.com/spf13/afero"
)

func newMachine(t *testing.T, fs afero.Fs) *hardware.Machine {
	t.Helper()
	prefs, err := preferences.NewPreferences(fs, preferences.DefaultPrefsFile)
	test.DemandSuccess(t, err)
	mc, err := hardware.NewMachine(environment.NewEnvironment(environment.Main, prefs), nil)
	test.DemandSuccess(t, err)
	return mc
}

func TestSaveLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	mc := newMachine(t, fs)

	base := mc.Base()
	test.DemandSuccess(t, mc.Write(base+watchdog.CONTROL, 0))
	test.DemandSuccess(t, mc.Write(base+watchdog.RELOAD, 1000))
	test.DemandSuccess(t, mc.Write(base+watchdog.CONTROL, watchdog.Enable|watchdog.IRQEnable))
	mc.AdvanceTo(1_000_000)

	state := mc.Snapshot()
	test.DemandSuccess(t, savestate.Save(fs, "test.state", state))

	// temporary file has been removed
	ok, err := afero.Exists(fs, "test.state.tmp")
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, ok)

	loaded, err := savestate.Load(fs, "test.state")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, loaded.Time, state.Time)
	test.ExpectEquality(t, *loaded.Watchdog, *state.Watchdog)

	// a new machine continues from the saved state
	mc2 := newMachine(t, fs)
	test.DemandSuccess(t, mc2.Plumb(loaded))
	test.ExpectEquality(t, mc2.Status().Count, mc.Status().Count)
	test.ExpectEquality(t, mc2.Now(), mc.Now())
}

func TestBadFiles(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := savestate.Load(fs, "missing.state")
	test.ExpectSuccess(t, curated.Is(err, savestate.FileError))

	_, err = savestate.Decode(strings.NewReader("not json"))
	test.ExpectSuccess(t, curated.Is(err, savestate.NotSavestate))

	_, err = savestate.Decode(strings.NewReader(`{"magic": "something else", "version": 1}`))
	test.ExpectSuccess(t, curated.Is(err, savestate.NotSavestate))

	_, err = savestate.Decode(strings.NewReader(`{"magic": "wdtsim-savestate", "version": 2}`))
	test.ExpectSuccess(t, curated.Is(err, savestate.UnsupportedVersion))

	_, err = savestate.Decode(strings.NewReader(`{"magic": "wdtsim-savestate", "version": 1, "time": 10}`))
	test.ExpectSuccess(t, curated.Is(err, savestate.Incomplete))

	err = savestate.Save(fs, "x.state", &hardware.State{})
	test.ExpectSuccess(t, curated.Is(err, savestate.Incomplete))
}

func TestBadWatchdogVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	mc := newMachine(t, fs)

	state := mc.Snapshot()
	state.Watchdog.Version = 2
	test.DemandSuccess(t, savestate.Save(fs, "test.state", state))

	loaded, err := savestate.Load(fs, "test.state")
	test.DemandSuccess(t, err)

	err = mc.Plumb(loaded)
	test.ExpectSuccess(t, curated.Has(err, watchdog.UnsupportedVersion))
}
