package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dawtools/portal-chooser/internal/portal"
	"github.com/dawtools/portal-chooser/internal/utils"
)

var _ = fmt.Print

// Selection is the JSON document handed back to the host application.
type Selection struct {
	Path                *string         `json:"path"`
	Paths               []string        `json:"paths"`
	Choices             map[string]bool `json:"choices"`
	SelectedFilterLabel *string         `json:"selected_filter_label"`
	SelectedFilterGlobs []string        `json:"selected_filter_globs"`
}

// ErrorReply is written instead of a Selection when the portal call itself
// failed. Cancellation and timeout are not errors and produce an empty
// Selection.
type ErrorReply struct {
	Error string `json:"error"`
}

func FromResult(r *portal.Result) *Selection {
	ans := &Selection{Paths: r.Paths, Choices: r.Choices, SelectedFilterGlobs: r.FilterGlobs}
	if ans.Paths == nil {
		ans.Paths = []string{}
	}
	if ans.Choices == nil {
		ans.Choices = map[string]bool{}
	}
	if len(ans.Paths) > 0 {
		ans.Path = &ans.Paths[0]
	}
	if r.FilterLabel != "" {
		label := r.FilterLabel
		ans.SelectedFilterLabel = &label
	}
	return ans
}

// WriteJSON writes v to stdout when target is "-", otherwise atomically to
// the named file.
func WriteJSON(v any, target string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if target == "-" || target == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return utils.AtomicWriteFile(target, data, 0o644)
}

// Logger appends diagnostic lines to a debug target: "-" for stderr, a file
// path for append, or nothing at all when no target is configured. Logging
// failures are swallowed, diagnostics must never break the result path.
type Logger struct {
	target string
}

func NewLogger(target string) *Logger {
	return &Logger{target: target}
}

func (l *Logger) Logf(format string, args ...any) {
	if l == nil || l.target == "" {
		return
	}
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if l.target == "-" {
		fmt.Fprint(os.Stderr, line)
		return
	}
	f, err := os.OpenFile(l.target, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(line)
}
