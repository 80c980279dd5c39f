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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failed test with t.Errorf() and allow the
// test to continue. The Demand*() functions are the same but fail with
// t.Fatalf(). Demand functions should be used when a value is used in further
// tests and so must be correct. For example, testing that the lengths of two
// slices are equal before iterating over them in unison.
//
// ExpectSuccess() and ExpectFailure() test for 'success' or 'failure' values
// in a generic way. A bool value of true is a success value and an error value
// of nil is a success value. An untyped nil is also considered to be a
// success.
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output. The CompareWriter.Compare() function can then be used to
// test for equality.
//
// All functions accept an optional list of tags. The tags are printed as part
// of the failure message and are useful for identifying which iteration of a
// loop failed.
package test
