// License: GPLv3 Copyright: 2025, Kovid Goyal, <kovid at kovidgoyal.net>

package utils

import (
	"os"
	"path/filepath"
)

// AtomicWriteFile writes data to a temporary file in the destination
// directory and renames it over path. The destination need not exist, but if
// it does and is a symlink the link target is replaced, not the link.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	path = Abspath(Expanduser(path))
	if q, qerr := filepath.EvalSymlinks(path); qerr == nil {
		path = q
	}
	var f *os.File
	f, err = os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-")
	if err != nil {
		return
	}
	removed := false
	defer func() {
		f.Close()
		if !removed {
			os.Remove(f.Name())
			removed = true
		}
	}()
	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
		if err == nil {
			err = f.Chmod(perm)
			if err == nil {
				err = os.Rename(f.Name(), path)
				if err == nil {
					removed = true
				}
			}
		}
	}
	return
}
