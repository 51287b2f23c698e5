// Package makerule emits a single `make`-compatible dependency rule using
// GNU make's exact quoting rules and its 72-column wrapping convention.
// The quoting logic here is a direct port of the quoting gcc and gas use.
package makerule

import (
	"bufio"
	"io"
)

// MaxColumns is the line width make wraps at.
const MaxColumns = 72

// quoteToken writes the make-quoted form of token to w (if w is non-nil)
// and returns the quoted length. Passing a nil w computes the length
// without writing anything — the "dry run" mode used for column tracking.
//
// Quoting rules:
//   - '$' is doubled.
//   - A space or tab is escaped with one backslash; any run of backslashes
//     immediately preceding it in the source is independently rescanned and
//     re-emitted, so N trailing backslashes before a space become 2N+1
//     backslashes followed by the space (this asymmetry — each backslash is
//     first emitted as an ordinary character, then re-emitted by the
//     lookbehind — is exactly what GNU make's own quoting convention
//     requires and is not a bug).
//   - a 0 byte terminates the token; any backslash run immediately
//     preceding it is still rescanned and re-emitted, but the terminator
//     itself is never written.
//   - every other byte is emitted unchanged.
func quoteToken(w io.ByteWriter, token string) int {
	n := 0
	emit := func(b byte) {
		if w != nil {
			w.WriteByte(b)
		}
		n++
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch c {
		case 0, ' ', '\t':
			j := i - 1
			for j >= 0 && token[j] == '\\' {
				emit('\\')
				j--
			}
			if c == 0 {
				return n
			}
			emit('\\')
			emit(c)
		case '$':
			emit(c)
			emit(c)
		default:
			emit(c)
		}
	}
	return n
}

// QuoteLen returns the length a token would occupy once make-quoted,
// without writing anything.
func QuoteLen(token string) int {
	return quoteToken(nil, token)
}

// writer tracks the current output column while wrapping long rules at
// MaxColumns, exactly mirroring gas's wrap_output/quote_string_for_make.
type writer struct {
	w      *bufio.Writer
	column int
}

// wrap writes token to the rule, preceded by spacer (' ' for a dependency,
// ':' for the target-then-colon, or 0 to suppress any spacer), wrapping
// onto a continuation line first if token would overflow the column limit.
func (mw *writer) wrap(token string, spacer byte) {
	length := quoteToken(nil, token)
	if length == 0 {
		return
	}

	if mw.column != 0 && MaxColumns-1-2 < mw.column+length {
		mw.w.WriteString(" \\\n ")
		mw.column = 0
		if spacer == ' ' {
			spacer = 0
		}
	}

	if spacer == ' ' {
		mw.w.WriteByte(spacer)
		mw.column++
	}

	quoteToken(mw.w, token)
	mw.column += length

	if spacer == ':' {
		mw.w.WriteByte(spacer)
		mw.column++
	}
}

// WriteRule writes a single make rule "target: dep1 dep2 …\n" to w, using
// GNU make's quoting and 72-column wrapping. deps are written in the order
// given — callers decide ordering (the dependency registry preserves
// insertion order; the OmniBOR manifest does not use this package at all).
func WriteRule(w io.Writer, target string, deps []string) error {
	mw := &writer{w: bufio.NewWriter(w)}
	mw.wrap(target, ':')
	for _, d := range deps {
		mw.wrap(d, ' ')
	}
	mw.w.WriteByte('\n')
	return mw.w.Flush()
}
