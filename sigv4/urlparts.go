package sigv4

import "strings"

// URLParts is the decomposition of a full URL string into the pieces the
// canonicalization stages need. Splitting is best-effort substring work;
// malformed URLs degrade to partial results rather than failing, the remote
// end is the final judge anyway.
type URLParts struct {
	//Host as it appeared in the URL, case preserved
	Host string

	//Path is the raw path portion, not yet canonicalized
	Path string

	//RawQuery is everything after the first ? (without the ?)
	RawQuery string
}

// SplitURL extracts host, path and raw query from a full URL.
// The host is whatever sits between the first "//" and the next "/". The path
// runs from that "/" up to the first "?".
func SplitURL(rawURL string) URLParts {
	rest := rawURL
	if idx := strings.Index(rest, "//"); idx >= 0 {
		rest = rest[idx+2:]
	}

	var host, pathAndQuery string
	if idx := strings.Index(rest, "/"); idx >= 0 {
		host = rest[:idx]
		pathAndQuery = rest[idx:]
	} else {
		host = rest
	}

	path := pathAndQuery
	var rawQuery string
	if idx := strings.Index(pathAndQuery, "?"); idx >= 0 {
		path = pathAndQuery[:idx]
		rawQuery = pathAndQuery[idx+1:]
	}

	return URLParts{
		Host:     host,
		Path:     path,
		RawQuery: rawQuery,
	}
}

// CanonicalURI lower-cases, trims and percent-encodes the path for use in the
// canonical request. An empty path stays empty; we deliberately do not force
// a trailing slash (see DESIGN.md, this is a compatibility decision).
func (u URLParts) CanonicalURI() string {
	return uriEncode(strings.ToLower(strings.TrimSpace(u.Path)))
}
