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

package easyterm

import (
	"bufio"
	"io"
)

// list of ASCII codes for non-alphanumeric characters
const (
	KeyCtrlC          = 3
	KeyCtrlD          = 4
	KeyTab            = 9
	KeyCarriageReturn = 13
	KeyEsc            = 27
	KeyBackspace      = 127
)

// list of ASCII code for characters that can follow KeyEsc
const (
	EscCursor = 91
)

// list of ASCII code for characters that can follow EscCursor
const (
	CursorUp       = 'A'
	CursorDown     = 'B'
	CursorForward  = 'C'
	CursorBackward = 'D'
)

// Key is a decoded key press. Printable characters are represented by their
// rune value. Cursor keys are represented by the values below, which are
// outside the range of valid runes.
type Key rune

// Cursor keys.
const (
	KeyUp Key = -(iota + 1)
	KeyDown
	KeyForward
	KeyBackward
	KeyUnknown
)

// KeyReader decodes key presses from a terminal in raw mode.
type KeyReader struct {
	r *bufio.Reader
}

// NewKeyReader is the preferred method of initialisation for the KeyReader
// type.
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{r: bufio.NewReader(r)}
}

// ReadKey blocks until a key is pressed. An escape key that is not followed
// by a cursor sequence in the same read is returned as KeyEsc.
func (kr *KeyReader) ReadKey() (Key, error) {
	r, _, err := kr.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if r != KeyEsc || kr.r.Buffered() == 0 {
		return Key(r), nil
	}

	b, err := kr.r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b != EscCursor {
		return KeyUnknown, nil
	}

	b, err = kr.r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case CursorUp:
		return KeyUp, nil
	case CursorDown:
		return KeyDown, nil
	case CursorForward:
		return KeyForward, nil
	case CursorBackward:
		return KeyBackward, nil
	}
	return KeyUnknown, nil
}
