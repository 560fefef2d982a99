package request

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/go-http-utils/headers"

	"github.com/fedsign/fedsign/constants"
	"github.com/fedsign/fedsign/sigv4"
)

const jsonContentType = "application/json"

//go-http-utils/headers has no constant for Host, the stdlib carries it on
//http.Request.Host rather than in the header map anyway
const hostHeader = "Host"

// SignedRequest is the value object handed to a transport collaborator.
// It carries everything needed to perform the exchange and nothing secret
// beyond what goes over the wire anyway.
type SignedRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte

	//Diagnostic material free of secret bytes, see SignResult
	CanonicalRequest string
	StringToSign     string
}

// Build signs a request descriptor with the wall clock pinned now. The
// timestamp is captured exactly once and reused for the X-Amz-Date header,
// the credential scope and the string to sign; a retry needs a fresh Build.
func Build(creds aws.Credentials, d RequestDescriptor) (*SignedRequest, error) {
	return BuildAt(creds, d, time.Now().UTC())
}

// BuildAt is Build with an explicit signing time, for deterministic use.
func BuildAt(creds aws.Credentials, d RequestDescriptor, signingTime time.Time) (*SignedRequest, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	sc := sigv4.NewSigningContext(signingTime, d.Region, d.Service)
	parts := sigv4.SplitURL(d.URL)

	var canonicalQuery string
	switch {
	case d.RawQuery != "":
		canonicalQuery = sigv4.CanonicalQueryFromRaw(d.RawQuery)
	case parts.RawQuery != "":
		canonicalQuery = sigv4.CanonicalQueryFromRaw(parts.RawQuery)
	default:
		canonicalQuery = sigv4.CanonicalQueryFromParams(d.Method, d.Params)
	}

	var body []byte
	if d.Method != http.MethodGet {
		var err error
		body, err = CanonicalJSONBody(d.Params)
		if err != nil {
			return nil, err
		}
	}

	toSign := map[string]string{
		hostHeader:           parts.Host,
		constants.AmzDateKey: sc.AmzDate,
	}
	if d.Method != http.MethodGet {
		toSign[headers.ContentType] = jsonContentType
	}
	hs := sigv4.NewHeaderSet(toSign)

	payloadHash := sigv4.HashedPayload(d.Method, body)
	res, err := sigv4.Sign(creds, d.Method, parts.CanonicalURI(), canonicalQuery, hs, payloadHash, sc)
	if err != nil {
		return nil, err
	}

	outHeaders := map[string]string{
		hostHeader:            parts.Host,
		constants.AmzDateKey:  sc.AmzDate,
		headers.Authorization: res.Authorization,
	}
	if d.Method != http.MethodGet {
		outHeaders[headers.ContentType] = jsonContentType
	}
	if creds.SessionToken != "" {
		outHeaders[constants.AmzSecurityTokenKey] = creds.SessionToken
	}

	return &SignedRequest{
		Method:           d.Method,
		URL:              finalURL(d.URL, canonicalQuery),
		Headers:          outHeaders,
		Body:             body,
		CanonicalRequest: res.CanonicalRequest,
		StringToSign:     res.StringToSign,
	}, nil
}

// finalURL replaces the query part of the descriptor url by its canonical
// form so that what we send is byte for byte what we signed. A signed query
// must never be dropped from the dispatched url.
func finalURL(url, canonicalQuery string) string {
	base, _, _ := strings.Cut(url, "?")
	if canonicalQuery == "" {
		return base
	}
	return base + "?" + canonicalQuery
}

// ToHTTPRequest converts the signed value object to a stdlib request for
// dispatch. Headers are set verbatim, the host header lands in r.Host.
func (sr *SignedRequest) ToHTTPRequest(ctx context.Context) (*http.Request, error) {
	var bodyReader *bytes.Reader = bytes.NewReader(sr.Body)
	r, err := http.NewRequestWithContext(ctx, sr.Method, sr.URL, bodyReader)
	if err != nil {
		return nil, err
	}
	for name, value := range sr.Headers {
		if name == hostHeader {
			r.Host = value
			continue
		}
		r.Header.Set(name, value)
	}
	return r, nil
}
