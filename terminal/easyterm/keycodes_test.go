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

package easyterm_test

import (
	"io"
	"strings"
	"testing"

	"github.com/socsim/wdtsim/terminal/easyterm"
	"github.com/socsim/wdtsim/test"
)

func TestReadKey(t *testing.T) {
	kr := easyterm.NewKeyReader(strings.NewReader("a\x1b[A\x1b[D\x1b[Z\x03"))

	exp := []easyterm.Key{'a', easyterm.KeyUp, easyterm.KeyBackward, easyterm.KeyUnknown, easyterm.KeyCtrlC}
	for i, e := range exp {
		k, err := kr.ReadKey()
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, k, e, i)
	}

	_, err := kr.ReadKey()
	test.ExpectEquality(t, err, io.EOF)
}

func TestLoneEscape(t *testing.T) {
	kr := easyterm.NewKeyReader(strings.NewReader("\x1b"))
	k, err := kr.ReadKey()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, k, easyterm.Key(easyterm.KeyEsc))
}
