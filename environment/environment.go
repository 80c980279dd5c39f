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

// Package environment defines those parts of the simulation that might change
// from instance to instance of the platform but are not part of the platform
// itself.
package environment

import (
	"github.com/socsim/wdtsim/hardware/preferences"
)

// Label indicates the context of the environment.
type Label string

// List of valid Label values.
const (
	Main Label = ""

	// an environment used for short-lived analysis (eg. replaying a savestate
	// to find the time of the next expiry). log entries are not made for
	// these environments
	Analysis Label = "analysis"
)

// Environment is shared by all components of a running platform.
type Environment struct {
	Label Label

	// the platform preferences. this can be shared between environments
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type. Prefs cannot be nil.
func NewEnvironment(label Label, prefs *preferences.Preferences) *Environment {
	return &Environment{
		Label: label,
		Prefs: prefs,
	}
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env.IsMainEmulation()
}

// IsMainEmulation returns true if the environment is for the main platform.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == Main
}
