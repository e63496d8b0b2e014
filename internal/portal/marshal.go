package portal

import (
	"os"

	"github.com/dawtools/portal-chooser/internal/utils"
)

// The portal expects paths as NUL-terminated byte strings ('ay'). Paths are
// tilde-expanded and made absolute but symlinks are never resolved: the
// string the user gave is the string the dialog should show.

// DirBytesOrHome encodes a directory path, substituting the home directory
// when the given path is empty or does not name an existing directory. The
// current_folder field must always carry a valid directory, so a bogus
// caller-supplied path is never forwarded verbatim.
func DirBytesOrHome(given string) []byte {
	s := utils.HomeDir()
	if given != "" {
		p := utils.Abspath(utils.Expanduser(given))
		if st, err := os.Stat(p); err == nil && st.IsDir() {
			s = p
		}
	}
	return append([]byte(s), 0)
}

// FileBytes encodes a file path with no existence check, for save targets
// that do not exist yet. Returns nil when no path was given.
func FileBytes(given string) []byte {
	if given == "" {
		return nil
	}
	p := utils.Abspath(utils.Expanduser(given))
	return append([]byte(p), 0)
}
