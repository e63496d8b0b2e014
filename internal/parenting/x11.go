package parenting

import (
	"fmt"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/dawtools/portal-chooser/internal/utils"
)

var _ = fmt.Print

// XPropRunner runs xprop with the given arguments and returns its stdout.
// Any failure returns the empty string, queries degrade to "no data".
type XPropRunner func(args ...string) string

func system_xprop_runner() XPropRunner {
	exe := utils.FindExe("xprop")
	if exe == "" {
		return nil
	}
	return func(args ...string) string {
		out, err := exec.Command(exe, args...).Output()
		if err != nil {
			return ""
		}
		return string(out)
	}
}

// WindowQuery answers read-only questions about top-level X11 windows via
// xprop. All methods are side effect free.
type WindowQuery struct {
	run XPropRunner
}

// NewWindowQuery returns a query backed by the system xprop, or nil when
// xprop is not installed, which callers treat as "no parenting possible".
func NewWindowQuery() *WindowQuery {
	r := system_xprop_runner()
	if r == nil {
		return nil
	}
	return &WindowQuery{run: r}
}

func NewWindowQueryWithRunner(r XPropRunner) *WindowQuery {
	return &WindowQuery{run: r}
}

// parse_window_ids extracts hex window ids (0x...) from xprop list output.
func parse_window_ids(s string) []string {
	var ids []string
	for _, token := range strings.Split(strings.ReplaceAll(s, "\n", " "), ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		fields := strings.Fields(token)
		wid := fields[len(fields)-1]
		if strings.HasPrefix(wid, "0x") {
			ids = append(ids, strings.ToLower(wid))
		}
	}
	return ids
}

// StackingOrder lists top-level windows front-to-back. xprop reports
// _NET_CLIENT_LIST_STACKING bottom-to-top, so the list is reversed.
func (self *WindowQuery) StackingOrder() []string {
	ids := parse_window_ids(self.run("-root", "_NET_CLIENT_LIST_STACKING"))
	slices.Reverse(ids)
	return ids
}

// ClientList lists top-level windows in no particular order.
func (self *WindowQuery) ClientList() []string {
	return parse_window_ids(self.run("-root", "_NET_CLIENT_LIST"))
}

// WindowPID reports the owning process of a window, if the window system
// knows it.
func (self *WindowQuery) WindowPID(wid string) (int32, bool) {
	s := self.run("-id", wid, "_NET_WM_PID")
	idx := strings.LastIndex(s, "=")
	if idx < 0 {
		return 0, false
	}
	pid, err := strconv.ParseInt(strings.TrimSpace(s[idx+1:]), 10, 32)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return int32(pid), true
}

func (self *WindowQuery) window_types(wid string) []string {
	s := self.run("-id", wid, "_NET_WM_WINDOW_TYPE")
	idx := strings.LastIndex(s, "=")
	if idx < 0 {
		return nil
	}
	var ans []string
	for _, t := range strings.Split(s[idx+1:], ",") {
		ans = append(ans, strings.TrimSpace(t))
	}
	return ans
}

// IsNormalWindow reports whether the window declares the NORMAL window type.
func (self *WindowQuery) IsNormalWindow(wid string) bool {
	for _, t := range self.window_types(wid) {
		if strings.Contains(t, "_NET_WM_WINDOW_TYPE_NORMAL") {
			return true
		}
	}
	return false
}

// HasTransientFor reports whether the window declares a transient-for
// relation, marking it as a dialog/popup rather than a parent anchor.
func (self *WindowQuery) HasTransientFor(wid string) bool {
	s := self.run("-id", wid, "WM_TRANSIENT_FOR")
	return strings.Contains(strings.ToLower(s), "window id")
}

var wm_class_pat = regexp.MustCompile(`WM_CLASS\(.*\)\s*=\s*(.+)`)

// WindowClass returns the raw WM_CLASS value for textual matching, or "".
func (self *WindowQuery) WindowClass(wid string) string {
	s := self.run("-id", wid, "WM_CLASS")
	m := wm_class_pat.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
