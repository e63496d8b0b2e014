package parenting

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/dawtools/portal-chooser/internal/utils"
)

var _ = fmt.Print

// ProcessReader reads metadata for a single process. Process metadata is
// inherently racy, so every method is allowed to fail; callers treat a
// failure as the field being absent for that process at that instant.
type ProcessReader interface {
	Parent(pid int32) (int32, error)
	Name(pid int32) (string, error)
	Exe(pid int32) (string, error)
	Cmdline(pid int32) (string, error)
}

// SystemProcessReader reads process metadata from the running system.
type SystemProcessReader struct{}

func (SystemProcessReader) Parent(pid int32) (int32, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return 0, err
	}
	return p.Ppid()
}

func (SystemProcessReader) Name(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Name()
}

func (SystemProcessReader) Exe(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Exe()
}

func (SystemProcessReader) Cmdline(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Cmdline()
}

// Ancestry is the chain of processes above one process, oldest last, along
// with the subset that looks like it belongs to the host application.
type Ancestry struct {
	Order []int32
	All   *utils.Set[int32]
	Host  *utils.Set[int32]
}

// is_host_affiliated reports whether process metadata matches the host
// marker. Name and executable path match on a case-insensitive substring.
// The command line is stricter: the marker must be a standalone
// whitespace-delimited token or a prefix of the whole line, so that paths
// merely containing the marker inside another word do not match.
func is_host_affiliated(marker, name, exe, cmdline string) bool {
	if marker == "" {
		return false
	}
	marker = strings.ToLower(marker)
	if strings.Contains(strings.ToLower(name), marker) || strings.Contains(strings.ToLower(exe), marker) {
		return true
	}
	cmdline = strings.ToLower(cmdline)
	if cmdline == "" {
		return false
	}
	if strings.HasPrefix(cmdline, marker) {
		return true
	}
	for _, tok := range strings.Fields(cmdline) {
		if tok == marker {
			return true
		}
	}
	return false
}

// CollectAncestors walks parent links starting at start (callers pass their
// own parent PID so the calling process itself is never a member). The walk
// stops when a parent link is unreadable, resolves to a non-positive PID, or
// revisits a PID, which guards against cycles from PID reuse. Read failures
// on name/exe/cmdline only degrade host-affiliation detection for that
// process, they never stop the walk.
func CollectAncestors(r ProcessReader, start int32, marker string) Ancestry {
	ans := Ancestry{All: utils.NewSet[int32](), Host: utils.NewSet[int32]()}
	pid := start
	for pid > 0 && !ans.All.Has(pid) {
		ans.Order = append(ans.Order, pid)
		ans.All.Add(pid)
		name, _ := r.Name(pid)
		exe, _ := r.Exe(pid)
		cmdline, _ := r.Cmdline(pid)
		if is_host_affiliated(marker, name, exe, cmdline) {
			ans.Host.Add(pid)
		}
		parent, err := r.Parent(pid)
		if err != nil {
			break
		}
		pid = parent
	}
	return ans
}
