package portal

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kovidgoyal/dbus"
)

var _ = fmt.Print

// Result is the caller-facing outcome of one dialog. Cancellation and
// timeout produce the empty result: no paths, no choices, no filter.
type Result struct {
	Paths       []string
	Choices     map[string]bool
	FilterLabel string
	FilterGlobs []string
}

func empty_result() *Result {
	return &Result{Paths: []string{}, Choices: map[string]bool{}}
}

// normalize_response maps the raw Response signal body (u, a{sv}) into a
// Result. Any status other than 0 means the user cancelled or the request
// otherwise ended without a selection, which is an ordinary empty result.
func normalize_response(body []any, method Method, originals map[string][]string) *Result {
	ans := empty_result()
	if len(body) < 2 {
		return ans
	}
	code, ok := body[0].(uint32)
	if !ok || code != 0 {
		return ans
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return ans
	}

	if v, found := results["uris"]; found {
		if uris, ok := v.Value().([]string); ok {
			for _, uri := range uris {
				ans.Paths = append(ans.Paths, uri_to_path(uri))
			}
		}
	}
	if v, found := results["choices"]; found {
		ans.Choices = normalize_choices(v.Value())
	}
	// Only SaveFile reports a meaningful active filter.
	if method == SaveFile {
		if v, found := results["current_filter"]; found {
			label, globs := unpack_current_filter(v.Value())
			ans.FilterLabel = label
			ans.FilterGlobs = map_backend_globs(originals, label, globs)
		}
	}
	return ans
}

// uri_to_path converts a file:// URI to a percent-decoded path. Anything
// with a different scheme passes through unchanged.
func uri_to_path(uri string) string {
	rest, found := strings.CutPrefix(uri, "file://")
	if !found {
		return uri
	}
	if decoded, err := url.PathUnescape(rest); err == nil {
		return decoded
	}
	return rest
}

// normalize_choices accepts both response shapes the service is known to
// produce, a{ss} and a(ss), and folds them into one map. Everything past
// this point only ever sees the map.
func normalize_choices(raw any) map[string]bool {
	ans := map[string]bool{}
	switch v := raw.(type) {
	case map[string]string:
		for k, val := range v {
			ans[k] = val == "true"
		}
	case [][]string:
		for _, pair := range v {
			if len(pair) >= 2 {
				ans[pair[0]] = pair[1] == "true"
			}
		}
	case []any:
		for _, item := range v {
			pair, ok := item.([]any)
			if !ok || len(pair) < 2 {
				continue
			}
			k, kok := pair[0].(string)
			val, vok := pair[1].(string)
			if kok && vok {
				ans[k] = val == "true"
			}
		}
	}
	return ans
}

// unpack_current_filter unpacks a (sa(us)) value delivered through a
// variant, tolerating nested variants and generic slices.
func unpack_current_filter(raw any) (label string, globs []string) {
	if v, ok := raw.(dbus.Variant); ok {
		raw = v.Value()
	}
	tuple, ok := raw.([]any)
	if !ok || len(tuple) < 2 {
		return "", nil
	}
	label, _ = tuple[0].(string)
	entries, ok := tuple[1].([]any)
	if !ok {
		return label, nil
	}
	for _, e := range entries {
		pair, ok := e.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		kind, kok := pair[0].(uint32)
		pat, pok := pair[1].(string)
		if kok && pok && kind == 0 {
			globs = append(globs, pat)
		}
	}
	return label, globs
}
