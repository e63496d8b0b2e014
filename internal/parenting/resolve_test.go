package parenting

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var _ = fmt.Print

type fake_window struct {
	pid       int32
	has_pid   bool
	wtype     string
	transient bool
	class     string
}

func normal_host_window(pid int32) fake_window {
	return fake_window{pid: pid, has_pid: true, wtype: "_NET_WM_WINDOW_TYPE_NORMAL", class: "REAPER"}
}

// fake_xprop emulates the xprop query surface. stacking is given
// bottom-to-top, exactly as xprop reports it.
func fake_xprop(stacking, client []string, windows map[string]fake_window) XPropRunner {
	return func(args ...string) string {
		if args[0] == "-root" {
			var ids []string
			switch args[1] {
			case "_NET_CLIENT_LIST_STACKING":
				ids = stacking
			case "_NET_CLIENT_LIST":
				ids = client
			}
			if len(ids) == 0 {
				return ""
			}
			return args[1] + "(WINDOW): window id # " + strings.Join(ids, ", ") + "\n"
		}
		w, ok := windows[args[1]]
		if !ok {
			return ""
		}
		switch args[2] {
		case "_NET_WM_PID":
			if !w.has_pid {
				return "_NET_WM_PID:  not found.\n"
			}
			return fmt.Sprintf("_NET_WM_PID(CARDINAL) = %d\n", w.pid)
		case "_NET_WM_WINDOW_TYPE":
			if w.wtype == "" {
				return "_NET_WM_WINDOW_TYPE:  not found.\n"
			}
			return "_NET_WM_WINDOW_TYPE(ATOM) = " + w.wtype + "\n"
		case "WM_TRANSIENT_FOR":
			if !w.transient {
				return "WM_TRANSIENT_FOR:  not found.\n"
			}
			return "WM_TRANSIENT_FOR(WINDOW): window id # 0x2c00007\n"
		case "WM_CLASS":
			if w.class == "" {
				return "WM_CLASS:  not found.\n"
			}
			return fmt.Sprintf("WM_CLASS(STRING) = %q, %q\n", strings.ToLower(w.class), w.class)
		}
		return ""
	}
}

// Process table: 400 (this helper's parent: a plain wrapper) -> 300 (the
// host) -> 200 -> 1. 9999 is unrelated.
func test_reader() fake_reader {
	return fake_reader{
		400:  {parent: 300, name: "sh", cmdline: "sh -c portal-chooser"},
		300:  {parent: 200, name: "reaper", exe: "/opt/REAPER/reaper", cmdline: "/opt/REAPER/reaper"},
		200:  {parent: 1, name: "bash"},
		1:    {parent: 0, name: "systemd"},
		9999: {parent: 1, name: "reaper-impostor", cmdline: "sleep 1000"},
	}
}

func test_config() Config {
	return Config{SessionType: "x11", HostMarker: "reaper"}
}

func TestResolverGates(t *testing.T) {
	windows := map[string]fake_window{"0x1": normal_host_window(300)}
	wq := NewWindowQueryWithRunner(fake_xprop([]string{"0x1"}, nil, windows))

	cfg := test_config()
	cfg.SessionType = "Wayland"
	if tok := ResolveParent(cfg, test_reader(), 400, wq); !tok.IsZero() {
		t.Fatalf("wayland session must not resolve a parent, got %q", tok.String())
	}

	cfg = test_config()
	cfg.NoParent = true
	if tok := ResolveParent(cfg, test_reader(), 400, wq); !tok.IsZero() {
		t.Fatalf("no-parent directive ignored, got %q", tok.String())
	}

	if tok := ResolveParent(test_config(), test_reader(), 400, nil); !tok.IsZero() {
		t.Fatalf("missing window query must disable parenting, got %q", tok.String())
	}

	cfg = test_config()
	cfg.ForcedParent = "x11:0xdeadbeef"
	expected := ParentToken{Platform: "x11", Handle: "0xdeadbeef"}
	if diff := cmp.Diff(expected, ResolveParent(cfg, test_reader(), 400, wq)); diff != "" {
		t.Fatalf("forced parent not used verbatim:\n%s", diff)
	}

	// An unparseable override falls through to normal resolution.
	cfg.ForcedParent = "bogus"
	if tok := ResolveParent(cfg, test_reader(), 400, wq); tok.Handle != "0x1" {
		t.Fatalf("resolution after bad override failed, got %q", tok.String())
	}
}

func TestResolverDeterminism(t *testing.T) {
	windows := map[string]fake_window{
		"0x1": normal_host_window(300),
		"0x2": normal_host_window(200),
	}
	wq := NewWindowQueryWithRunner(fake_xprop([]string{"0x1", "0x2"}, nil, windows))
	first := ResolveParent(test_config(), test_reader(), 400, wq)
	second := ResolveParent(test_config(), test_reader(), 400, wq)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolution is not deterministic:\n%s", diff)
	}
}

func TestResolverPrefersHostAffiliatedOwner(t *testing.T) {
	// 0x2 is owned by a merely-related ancestor, 0x1 by the host itself.
	// Whatever the candidate order, the host-owned window wins.
	windows := map[string]fake_window{
		"0x1": normal_host_window(300),
		"0x2": normal_host_window(200),
	}
	for _, stacking := range [][]string{{"0x1", "0x2"}, {"0x2", "0x1"}} {
		wq := NewWindowQueryWithRunner(fake_xprop(stacking, nil, windows))
		tok := ResolveParent(test_config(), test_reader(), 400, wq)
		expected := ParentToken{Platform: "x11", Handle: "0x1"}
		if diff := cmp.Diff(expected, tok); diff != "" {
			t.Fatalf("stacking %v:\n%s", stacking, diff)
		}
	}
}

func TestResolverFrontMostAmongEquals(t *testing.T) {
	// Two equally preferred windows: the scan stops at the first, which
	// after reversal of the xprop order is the front-most one.
	windows := map[string]fake_window{
		"0x1": normal_host_window(300),
		"0x2": normal_host_window(300),
	}
	wq := NewWindowQueryWithRunner(fake_xprop([]string{"0x1", "0x2"}, nil, windows))
	if tok := ResolveParent(test_config(), test_reader(), 400, wq); tok.Handle != "0x2" {
		t.Fatalf("expected front-most window 0x2, got %q", tok.String())
	}
}

func TestResolverRejectsUnrelatedProcess(t *testing.T) {
	// Class name matches but the owner is not an ancestor: never chosen.
	windows := map[string]fake_window{"0x1": normal_host_window(9999)}
	wq := NewWindowQueryWithRunner(fake_xprop([]string{"0x1"}, nil, windows))
	if tok := ResolveParent(test_config(), test_reader(), 400, wq); !tok.IsZero() {
		t.Fatalf("window of unrelated process selected: %q", tok.String())
	}
}

func TestResolverFilters(t *testing.T) {
	transient := normal_host_window(300)
	transient.transient = true
	dialog := normal_host_window(300)
	dialog.wtype = "_NET_WM_WINDOW_TYPE_DIALOG"
	wrong_class := normal_host_window(300)
	wrong_class.class = "Gedit"
	no_pid := normal_host_window(300)
	no_pid.has_pid = false
	windows := map[string]fake_window{
		"0x1": transient,
		"0x2": dialog,
		"0x3": wrong_class,
		"0x4": no_pid,
	}
	wq := NewWindowQueryWithRunner(fake_xprop([]string{"0x1", "0x2", "0x3", "0x4"}, nil, windows))
	if tok := ResolveParent(test_config(), test_reader(), 400, wq); !tok.IsZero() {
		t.Fatalf("disqualified window selected: %q", tok.String())
	}
}

func TestResolverClientListFallback(t *testing.T) {
	windows := map[string]fake_window{"0x7": normal_host_window(300)}
	wq := NewWindowQueryWithRunner(fake_xprop(nil, []string{"0x7"}, windows))
	if tok := ResolveParent(test_config(), test_reader(), 400, wq); tok.Handle != "0x7" {
		t.Fatalf("client list fallback failed, got %q", tok.String())
	}
}

func TestParentTokenRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected ParentToken
	}{
		{"x11:0x5c02b2e", ParentToken{Platform: "x11", Handle: "0x5c02b2e"}},
		{"wayland:abcdef", ParentToken{Platform: "wayland", Handle: "abcdef"}},
		{"x11:", ParentToken{}},
		{"mir:window", ParentToken{}},
		{"", ParentToken{}},
	} {
		actual := ParseParentToken(tc.input)
		if diff := cmp.Diff(tc.expected, actual); diff != "" {
			t.Fatalf("Failed for: %#v\n%s", tc.input, diff)
		}
		if !tc.expected.IsZero() && actual.String() != tc.input {
			t.Fatalf("round trip failed for %#v: %#v", tc.input, actual.String())
		}
	}
	if (ParentToken{}).String() != "" {
		t.Fatal("zero token must render as the empty string")
	}
}
