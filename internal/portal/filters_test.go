package portal

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var _ = fmt.Print

func TestParseFilterArg(t *testing.T) {
	f, ok := ParseFilterArg("REAPER Project files (*.RPP)|*.RPP;*.RPP-BAK")
	if !ok {
		t.Fatal("valid filter rejected")
	}
	expected := Filter{Label: "REAPER Project files (*.RPP)", Globs: []string{"*.RPP", "*.RPP-BAK"}}
	if diff := cmp.Diff(expected, f); diff != "" {
		t.Fatalf("unexpected filter:\n%s", diff)
	}
	for _, bad := range []string{"", "no separator", "|*.RPP", "Label|", "Label| ; ;"} {
		if _, ok := ParseFilterArg(bad); ok {
			t.Fatalf("invalid filter accepted: %#v", bad)
		}
	}
}

func TestParseChoiceArg(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected Choice
	}{
		{"open_in_new_tab|Open in new project tab|false", Choice{ID: "open_in_new_tab", Label: "Open in new project tab"}},
		{"fx_offline|FX offline|1", Choice{ID: "fx_offline", Label: "FX offline", Default: true}},
		{"fx_offline|FX offline|YES", Choice{ID: "fx_offline", Label: "FX offline", Default: true}},
		{"someid|", Choice{ID: "someid", Label: "someid"}},
		{"someid|label", Choice{ID: "someid", Label: "label"}},
	} {
		c, ok := ParseChoiceArg(tc.input)
		if !ok {
			t.Fatalf("valid choice rejected: %#v", tc.input)
		}
		if diff := cmp.Diff(tc.expected, c); diff != "" {
			t.Fatalf("Failed for: %#v\n%s", tc.input, diff)
		}
	}
	for _, bad := range []string{"", "idonly", "|label|true"} {
		if _, ok := ParseChoiceArg(bad); ok {
			t.Fatalf("invalid choice accepted: %#v", bad)
		}
	}
}

func TestDupeCaseGlobs(t *testing.T) {
	actual := dupe_case_globs([]string{"*.RPP", "*.rpp", "clipsort.log"})
	expected := []string{"*.RPP", "*.rpp", "CLIPSORT.LOG", "clipsort.log"}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("unexpected expansion:\n%s", diff)
	}
}

func TestMapBackendGlobs(t *testing.T) {
	originals := map[string][]string{"Projects": {"*.RPP", "PROJ*.TXT"}}
	// The backend reports the lowercased variant; the original casing must
	// come back.
	actual := map_backend_globs(originals, "Projects", []string{"*.rpp", "proj*.txt", "*.unrelated"})
	expected := []string{"*.RPP", "PROJ*.TXT", "*.unrelated"}
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("reverse mapping failed:\n%s", diff)
	}
	// Unknown label or empty input pass through untouched.
	backend := []string{"*.rpp"}
	if diff := cmp.Diff(backend, map_backend_globs(originals, "Other", backend)); diff != "" {
		t.Fatalf("unknown label must pass through:\n%s", diff)
	}
	if got := map_backend_globs(originals, "", backend); cmp.Diff(backend, got) != "" {
		t.Fatalf("empty label must pass through, got %#v", got)
	}
	if got := map_backend_globs(originals, "Projects", nil); got != nil {
		t.Fatalf("empty backend list must pass through, got %#v", got)
	}
}
