// Package actions writes step outputs in the GitHub Actions convention: an
// append-only file of KEY=value lines named by the GITHUB_OUTPUT variable.
package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/caddybuilds/buildcheck/pkg/console"
	"github.com/caddybuilds/buildcheck/pkg/util"
)

const OutputEnvVarName = "GITHUB_OUTPUT"

// Output appends key/value pairs to the workflow output file.
type Output struct {
	path string
}

// NewOutput returns an output sink for the file named by GITHUB_OUTPUT.
// Outside of a workflow the path is empty and every Set becomes a warning.
func NewOutput() *Output {
	return &Output{path: os.Getenv(OutputEnvVarName)}
}

// Set appends one output entry. Multi-line values are wrapped in a heredoc
// block with a freshly generated delimiter, because the file format has no
// escaping of its own.
func (o *Output) Set(name, value string) error {
	if o.path == "" {
		console.Warn("%s is not set; cannot set output %q", OutputEnvVarName, name)
		return nil
	}

	f, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return util.WrapError(err, "opening output file "+o.path)
	}
	defer f.Close()

	var entry string
	if strings.Contains(value, "\n") {
		delimiter := heredocDelimiter(value)
		entry = fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
	} else {
		entry = fmt.Sprintf("%s=%s\n", name, value)
	}

	if _, err := f.WriteString(entry); err != nil {
		return util.WrapError(err, "writing output "+name)
	}
	return nil
}

// heredocDelimiter generates a delimiter guaranteed not to occur in value.
func heredocDelimiter(value string) string {
	for {
		delimiter := "ghadelimiter_" + uuid.NewString()
		if !strings.Contains(value, delimiter) {
			return delimiter
		}
	}
}
