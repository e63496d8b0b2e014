package portal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kovidgoyal/dbus"

	"github.com/dawtools/portal-chooser/internal/parenting"
	"github.com/dawtools/portal-chooser/internal/utils"
)

var _ = fmt.Print

const (
	PORTAL_BUS_NAME        = "org.freedesktop.portal.Desktop"
	PORTAL_OBJ_PATH        = dbus.ObjectPath("/org/freedesktop/portal/desktop")
	FILE_CHOOSER_INTERFACE = "org.freedesktop.portal.FileChooser"
	REQUEST_INTERFACE      = "org.freedesktop.portal.Request"
	RESPONSE_MEMBER        = REQUEST_INTERFACE + ".Response"
)

type Method int

const (
	OpenFile Method = iota
	SaveFile
	SelectFolder
)

func (m Method) String() string {
	switch m {
	case SaveFile:
		return "SaveFile"
	case SelectFolder:
		return "SelectFolder"
	}
	return "OpenFile"
}

// Request describes one dialog. Timeout of zero means wait for the user
// indefinitely, it is not an immediate timeout.
type Request struct {
	Method        Method
	Title         string
	AcceptLabel   string
	Multiple      bool
	Modal         bool
	CurrentFolder string
	CurrentFile   string // SaveFile only
	CurrentName   string // SaveFile only
	Filters       []Filter
	InitialFilter string
	Choices       []Choice
	Parent        parenting.ParentToken
	Timeout       time.Duration
}

// Wire shapes for the FileChooser option map.
type filter_rule struct {
	Kind    uint32 // 0 = glob, 1 = mimetype
	Pattern string
}
type filter_entry struct { // (sa(us))
	Label string
	Rules []filter_rule
}
type choice_option struct { // (ss)
	Value string
	Label string
}
type choice_entry struct { // (ssa(ss)s)
	ID      string
	Label   string
	Options []choice_option
	Default string
}

func handle_token() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("portal_chooser_%d", os.Getpid())
	}
	return "portal_chooser_" + hex.EncodeToString(b)
}

// request_path predicts the request object path the portal will allocate for
// our handle_token: the caller's unique bus name with ':' stripped and '.'
// mapped to '_', followed by the token.
func request_path(sender, token string) dbus.ObjectPath {
	sender = strings.ReplaceAll(strings.TrimPrefix(sender, ":"), ".", "_")
	return dbus.ObjectPath("/org/freedesktop/portal/desktop/request/" + sender + "/" + token)
}

// options builds the a{sv} option map for the initiating call and returns,
// alongside it, the label -> original globs association needed to reverse
// map the backend's case-expanded filter report.
func (req *Request) options(token string) (map[string]dbus.Variant, map[string][]string) {
	opts := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(token),
		"multiple":     dbus.MakeVariant(req.Multiple),
		"modal":        dbus.MakeVariant(req.Modal),
	}

	// Open/SelectFolder always get a start folder. Save gets one only when
	// explicitly requested or when no save target was named, otherwise the
	// dialog should start at the target.
	switch req.Method {
	case OpenFile, SelectFolder:
		opts["current_folder"] = dbus.MakeVariant(DirBytesOrHome(req.CurrentFolder))
	case SaveFile:
		if req.CurrentFolder != "" {
			opts["current_folder"] = dbus.MakeVariant(DirBytesOrHome(req.CurrentFolder))
		} else if req.CurrentFile == "" {
			opts["current_folder"] = dbus.MakeVariant(DirBytesOrHome(""))
		}
	}

	if req.AcceptLabel != "" {
		opts["accept_label"] = dbus.MakeVariant(req.AcceptLabel)
	}

	originals := make(map[string][]string, len(req.Filters))
	if len(req.Filters) > 0 {
		entries := make([]filter_entry, 0, len(req.Filters))
		for _, f := range req.Filters {
			originals[f.Label] = f.Globs
			rules := make([]filter_rule, 0, 2*len(f.Globs))
			for _, pat := range dupe_case_globs(f.Globs) {
				rules = append(rules, filter_rule{Kind: 0, Pattern: pat})
			}
			entries = append(entries, filter_entry{Label: f.Label, Rules: rules})
		}
		opts["filters"] = dbus.MakeVariant(entries)
		if req.InitialFilter != "" {
			// current_filter must byte-match one of the entries in filters,
			// so the case-expanded entry is sent, not the original.
			for _, e := range entries {
				if e.Label == req.InitialFilter {
					opts["current_filter"] = dbus.MakeVariant(e)
					break
				}
			}
		}
	}

	if req.Method == SaveFile {
		if req.CurrentFile != "" {
			opts["current_file"] = dbus.MakeVariant(FileBytes(req.CurrentFile))
			if req.CurrentName == "" {
				base := filepath.Base(utils.Abspath(utils.Expanduser(req.CurrentFile)))
				if base != "" && base != "." && base != string(os.PathSeparator) {
					opts["current_name"] = dbus.MakeVariant(base)
				}
			}
		}
		if req.CurrentName != "" {
			opts["current_name"] = dbus.MakeVariant(req.CurrentName)
		}
	}

	if len(req.Choices) > 0 {
		entries := make([]choice_entry, 0, len(req.Choices))
		for _, c := range req.Choices {
			entries = append(entries, choice_entry{
				ID: c.ID, Label: c.Label, Options: []choice_option{},
				Default: utils.IfElse(c.Default, "true", "false"),
			})
		}
		opts["choices"] = dbus.MakeVariant(entries)
	}

	return opts, originals
}

// Run drives one dialog from start to finish: issue the initiating call,
// subscribe to the Response signal scoped to the returned request handle,
// then block until the first of completion signal or deadline. Exactly one
// call, exactly one terminal result; there are no retries. Cancellation and
// timeout are normal empty results, only a failure of the initiating call
// (or losing the bus while waiting) is an error.
func Run(req *Request) (*Result, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("could not connect to session D-Bus: %w", err)
	}

	title := req.Title
	if title == "" {
		title = "Open"
	}
	token := handle_token()
	opts, originals := req.options(token)

	// Subscribe at the predicted request path before the initiating call so
	// that a backend answering instantly cannot slip its Response in before
	// the match rule is installed.
	expected := request_path(conn.Names()[0], token)
	if err = conn.AddMatchSignal(
		dbus.WithMatchObjectPath(expected),
		dbus.WithMatchInterface(REQUEST_INTERFACE),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return nil, fmt.Errorf("failed to subscribe to portal response: %w", err)
	}
	ch := make(chan *dbus.Signal, 8)
	conn.Signal(ch)
	defer conn.RemoveSignal(ch)

	var handle dbus.ObjectPath
	obj := conn.Object(PORTAL_BUS_NAME, PORTAL_OBJ_PATH)
	method := FILE_CHOOSER_INTERFACE + "." + req.Method.String()
	if err = obj.Call(method, 0, req.Parent.String(), title, opts).Store(&handle); err != nil {
		return nil, fmt.Errorf("portal call %s failed: %w", method, err)
	}
	// Old portal versions predate handle_token and return a handle that
	// differs from the predicted path; subscribe to it as well.
	if handle != expected {
		if err = conn.AddMatchSignal(
			dbus.WithMatchObjectPath(handle),
			dbus.WithMatchInterface(REQUEST_INTERFACE),
			dbus.WithMatchMember("Response"),
		); err != nil {
			return nil, fmt.Errorf("failed to subscribe to portal response: %w", err)
		}
	}

	return wait_for_response(ch, handle, req.Method, originals, req.Timeout)
}

// wait_for_response blocks on the signal channel with an optional deadline.
// Whichever of the two fires first wins and produces the single terminal
// result; a signal arriving after the deadline is never processed.
func wait_for_response(ch <-chan *dbus.Signal, handle dbus.ObjectPath, method Method, originals map[string][]string, timeout time.Duration) (*Result, error) {
	var deadline <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	for {
		select {
		case sig, ok := <-ch:
			if !ok {
				return nil, fmt.Errorf("connection to session D-Bus lost while waiting for portal response")
			}
			if sig.Path != handle || sig.Name != RESPONSE_MEMBER {
				continue
			}
			return normalize_response(sig.Body, method, originals), nil
		case <-deadline:
			return empty_result(), nil
		}
	}
}
