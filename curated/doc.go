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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. The pattern is retained and is
// what distinguishes one curated error from another:
//
//	const BadOffset = "bus: no device at address %#08x"
//
//	e := curated.Errorf(BadOffset, addr)
//	if curated.Is(e, BadOffset) {
//		...
//	}
//
// Has() checks whether a pattern occurs anywhere in the chain of wrapped
// curated errors. IsAny() answers whether an error was created by Errorf() at
// all, which is a useful way of separating expected from unexpected errors.
//
// Error messages are normalised so that adjacent duplicate parts of the chain
// are removed. Parts are separated by the sub-string ': '. This means a
// function can wrap an error with its own context without worrying about
// whether the error it received was already wrapped in the same way:
//
//	savestate: savestate: unsupported version (3)
//
// is printed as
//
//	savestate: unsupported version (3)
//
// Sentinal patterns are stored as const strings in the package that creates
// them. The first error among the placeholder values is available to
// errors.Unwrap() so curated errors cooperate with the errors package.
package curated
