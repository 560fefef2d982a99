package request

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fedsign/fedsign/sigv4"
)

var (
	ErrUnsupportedMethod = errors.New("method is not supported for signing")
	ErrAmbiguousParams   = errors.New("request carries more than one source of query parameters")
	ErrNoURL             = errors.New("request descriptor has no url")
	ErrNoScope           = errors.New("request descriptor misses region or service")
)

var supportedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPut:    true,
	http.MethodPost:   true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// RequestDescriptor describes one request to be signed. It is assembled once
// by the caller and not mutated afterwards; every Build call derives fresh
// canonical material from it.
//
// Parameters can be given structured (Params) or as a raw query string
// (RawQuery), not both. Structured parameters travel in the query for GET
// and as a JSON body for every other method.
type RequestDescriptor struct {
	Method   string
	URL      string
	Params   []sigv4.QueryParam
	RawQuery string
	Region   string
	Service  string
}

func (d RequestDescriptor) validate() error {
	if !supportedMethods[d.Method] {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, d.Method)
	}
	if d.URL == "" {
		return ErrNoURL
	}
	if d.Region == "" || d.Service == "" {
		return ErrNoScope
	}
	sources := 0
	if len(d.Params) > 0 {
		sources++
	}
	if d.RawQuery != "" {
		sources++
	}
	if strings.Contains(d.URL, "?") {
		sources++
	}
	if sources > 1 {
		return ErrAmbiguousParams
	}
	return nil
}
