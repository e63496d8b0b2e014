package parenting

import (
	"fmt"
	"strings"

	"github.com/dawtools/portal-chooser/internal/utils"
)

var _ = fmt.Print

// ParentToken identifies the window a dialog should be anchored to. The zero
// value means "no parent", which is a valid, common outcome.
type ParentToken struct {
	Platform string // "x11" or "wayland"
	Handle   string
}

func (t ParentToken) IsZero() bool {
	return t.Platform == "" && t.Handle == ""
}

// String renders the token in the portal's parent_window format, e.g.
// "x11:0x5c02b2e", or "" for the zero token.
func (t ParentToken) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Platform + ":" + t.Handle
}

// ParseParentToken parses "x11:HANDLE" or "wayland:HANDLE". Anything else
// yields the zero token.
func ParseParentToken(s string) ParentToken {
	platform, handle, found := strings.Cut(s, ":")
	if !found || handle == "" {
		return ParentToken{}
	}
	switch platform {
	case "x11", "wayland":
		return ParentToken{Platform: platform, Handle: handle}
	}
	return ParentToken{}
}

// Config carries every ambient input the resolver needs, read once at the
// edge and threaded in explicitly so resolution stays a pure function of
// (process snapshot, window snapshot, config).
type Config struct {
	SessionType  string // XDG_SESSION_TYPE
	NoParent     bool   // PORTAL_NO_PARENT=1
	ForcedParent string // PORTAL_PARENT
	HostMarker   string // e.g. "reaper"
}

// ResolveParent picks at most one top-level window to anchor the dialog to.
//
// Gates, in order: a wayland session has no X11 windows to offer; an
// explicit no-parent directive wins; without a window query mechanism
// nothing can be resolved; a forced override is used as given, skipping the
// heuristics entirely.
//
// Otherwise candidates are scanned in front-to-back stacking order (client
// list when stacking is unavailable). A candidate must be a normal top-level
// window, must not be transient, its class must contain the host marker, and
// its owning PID must be in the ancestor chain. A window owned by an
// unrelated process is never chosen, however well its class matches.
// Candidates owned by host-affiliated ancestors score 2, others 1; the scan
// stops at the first score-2 match since later candidates cannot outscore it
// and the front-most of equally preferred windows is wanted. No qualifying
// candidate is not an error, the dialog is simply unanchored.
func ResolveParent(cfg Config, reader ProcessReader, start int32, windows *WindowQuery) ParentToken {
	if strings.EqualFold(cfg.SessionType, "wayland") {
		return ParentToken{}
	}
	if cfg.NoParent {
		return ParentToken{}
	}
	if windows == nil {
		return ParentToken{}
	}
	if cfg.ForcedParent != "" {
		if t := ParseParentToken(cfg.ForcedParent); !t.IsZero() {
			return t
		}
	}

	anc := CollectAncestors(reader, start, cfg.HostMarker)
	ids := windows.StackingOrder()
	if len(ids) == 0 {
		ids = windows.ClientList()
	}
	marker := strings.ToLower(cfg.HostMarker)

	best := ""
	best_pref := -1
	for _, wid := range ids {
		if !windows.IsNormalWindow(wid) {
			continue
		}
		if windows.HasTransientFor(wid) {
			continue
		}
		if marker == "" || !strings.Contains(strings.ToLower(windows.WindowClass(wid)), marker) {
			continue
		}
		pid, ok := windows.WindowPID(wid)
		if !ok || !anc.All.Has(pid) {
			continue
		}
		pref := utils.IfElse(anc.Host.Has(pid), 2, 1)
		if pref > best_pref {
			best_pref, best = pref, wid
			if pref == 2 {
				break
			}
		}
	}
	if best == "" {
		return ParentToken{}
	}
	return ParentToken{Platform: "x11", Handle: best}
}
