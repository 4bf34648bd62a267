package signuri

import (
	"net/url"
	"strings"
)

// validParam reports whether name can be used in a query string as is.
func validParam(name string) bool {
	return name != "" && url.QueryEscape(name) == name
}

// appendParam adds name=value to the query of uri, ahead of any fragment.
// A "?" anywhere before the fragment, even with an empty query, means the
// pair is joined with "&".
func appendParam(uri, name, value string) string {
	base, fragment, hasFragment := strings.Cut(uri, "#")
	join := "?"
	if strings.Contains(base, "?") {
		join = "&"
	}
	out := base + join + name + "=" + value
	if hasFragment {
		out += "#" + fragment
	}
	return out
}

// lookupParam returns the last value of name in the query of uri.
func lookupParam(uri, name string) (string, bool) {
	base, _, _ := strings.Cut(uri, "#")
	_, rawQuery, ok := strings.Cut(base, "?")
	if !ok {
		return "", false
	}
	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(rawQuery)
	vs := values[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[len(vs)-1], true
}
