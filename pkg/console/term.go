package console

import (
	"os"

	"github.com/moby/term"
)

// IsTerminal returns true if stderr is attached to a terminal. Log output is
// colored only when a user is actually watching it.
func IsTerminal() bool {
	return term.IsTerminal(os.Stderr.Fd())
}
