// License: GPLv3 Copyright: 2025, Kovid Goyal, <kovid at kovidgoyal.net>

package utils

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

func Expanduser(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		usr, uerr := user.Current()
		if uerr == nil {
			home, err = usr.HomeDir, nil
		}
	}
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	path = strings.ReplaceAll(path, string(os.PathSeparator), "/")
	parts := strings.Split(path, "/")
	if parts[0] == "~" {
		parts[0] = home
	} else {
		uname := parts[0][1:]
		if uname != "" {
			u, err := user.Lookup(uname)
			if err == nil && u.HomeDir != "" {
				parts[0] = u.HomeDir
			}
		}
	}
	return strings.Join(parts, string(os.PathSeparator))
}

func Abspath(path string) string {
	q, err := filepath.Abs(path)
	if err == nil {
		return q
	}
	return path
}

var home_dir = (&Once[string]{Run: func() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil && usr.HomeDir != "" {
		return usr.HomeDir
	}
	return "/"
}}).Get

// HomeDir returns the current user's home directory, falling back to the
// filesystem root if it cannot be determined.
func HomeDir() string {
	return home_dir()
}

var config_dir string

func ConfigDir() string {
	if config_dir != "" {
		return config_dir
	}
	if os.Getenv("PORTAL_CHOOSER_CONFIG_DIRECTORY") != "" {
		config_dir = Abspath(Expanduser(os.Getenv("PORTAL_CHOOSER_CONFIG_DIRECTORY")))
	} else {
		if os.Getenv("XDG_CONFIG_HOME") != "" {
			config_dir = filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "portal-chooser")
		} else {
			config_dir = filepath.Join(Expanduser("~/.config"), "portal-chooser")
		}
	}
	return config_dir
}
