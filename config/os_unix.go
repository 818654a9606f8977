//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// Path separators are filtered separately, nothing else is illegal here.
const illegalNameRunes = ""

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
