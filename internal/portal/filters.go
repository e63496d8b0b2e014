package portal

import (
	"fmt"
	"strings"
)

var _ = fmt.Print

// Filter is one named group of glob patterns, in the caller's original
// casing.
type Filter struct {
	Label string
	Globs []string
}

// Choice is one extra checkbox shown in the dialog.
type Choice struct {
	ID      string
	Label   string
	Default bool
}

// ParseFilterArg parses "Label|glob1;glob2;...".
func ParseFilterArg(s string) (Filter, bool) {
	label, rest, found := strings.Cut(s, "|")
	if !found {
		return Filter{}, false
	}
	label = strings.TrimSpace(label)
	var globs []string
	for _, g := range strings.Split(rest, ";") {
		if g = strings.TrimSpace(g); g != "" {
			globs = append(globs, g)
		}
	}
	if label == "" || len(globs) == 0 {
		return Filter{}, false
	}
	return Filter{Label: label, Globs: globs}, true
}

var truthy = map[string]bool{"true": true, "1": true, "yes": true, "y": true, "on": true}

// ParseChoiceArg parses "id|label|default" where default is optional and
// interpreted leniently (true/1/yes/y/on). An empty label falls back to the
// id.
func ParseChoiceArg(s string) (Choice, bool) {
	parts := strings.Split(s, "|")
	if len(parts) < 2 {
		return Choice{}, false
	}
	id := strings.TrimSpace(parts[0])
	if id == "" {
		return Choice{}, false
	}
	label := strings.TrimSpace(parts[1])
	if label == "" {
		label = id
	}
	dflt := false
	if len(parts) >= 3 {
		dflt = truthy[strings.ToLower(strings.TrimSpace(parts[2]))]
	}
	return Choice{ID: id, Label: label, Default: dflt}, true
}

// dupe_case_globs expands each glob into its upper and lower cased variants
// so case-insensitive matching works with backends that match globs
// case-sensitively. Order is preserved and duplicates dropped.
func dupe_case_globs(globs []string) []string {
	out := make([]string, 0, 2*len(globs))
	seen := make(map[string]bool, 2*len(globs))
	for _, pat := range globs {
		for _, variant := range [2]string{strings.ToUpper(pat), strings.ToLower(pat)} {
			if !seen[variant] {
				seen[variant] = true
				out = append(out, variant)
			}
		}
	}
	return out
}

// map_backend_globs maps globs reported by the backend (possibly one of the
// case-expanded variants) back to the first caller-supplied original whose
// lower-cased form matches. Unmappable globs pass through verbatim.
func map_backend_globs(originals map[string][]string, label string, backend []string) []string {
	if label == "" || len(backend) == 0 {
		return backend
	}
	orig := originals[label]
	if len(orig) == 0 {
		return backend
	}
	lc := make(map[string]string, len(orig))
	for _, og := range orig {
		key := strings.ToLower(og)
		if _, ok := lc[key]; !ok {
			lc[key] = og
		}
	}
	mapped := make([]string, 0, len(backend))
	for _, g := range backend {
		if og, ok := lc[strings.ToLower(g)]; ok {
			mapped = append(mapped, og)
		} else {
			mapped = append(mapped, g)
		}
	}
	return mapped
}
