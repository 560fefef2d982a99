package request

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/fedsign/fedsign/constants"
	"github.com/fedsign/fedsign/sigv4"
)

var testBuildCreds = aws.Credentials{
	AccessKeyID:     "AKIDEXAMPLE",
	SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
	SessionToken:    "FQoGZXIvYXdzEBYaDTESTSESSIONTOKEN",
}

var testBuildTime = time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)

func canonicalRequestLines(t testing.TB, sr *SignedRequest) []string {
	t.Helper()
	lines := strings.Split(sr.CanonicalRequest, "\n")
	if len(lines) < 6 {
		t.Fatalf("canonical request has too few lines: %q", sr.CanonicalRequest)
	}
	return lines
}

func TestBuildGetWithoutParams(t *testing.T) {
	//GIVEN a parameterless GET request against an API gateway style endpoint
	d := RequestDescriptor{
		Method:  http.MethodGet,
		URL:     "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
		Region:  "us-east-1",
		Service: "execute-api",
	}

	//WHEN building the signed request
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN the canonical request carries the path, an empty query and the
	//empty payload hash
	lines := canonicalRequestLines(t, sr)
	if lines[1] != "/prod/items" {
		t.Errorf("unexpected canonical uri %q", lines[1])
	}
	if lines[2] != "" {
		t.Errorf("expected empty canonical query, got %q", lines[2])
	}
	if lines[len(lines)-1] != constants.EmptyStringSHA256 {
		t.Errorf("expected empty payload hash, got %q", lines[len(lines)-1])
	}
	if sr.Body != nil {
		t.Errorf("GET must not carry a body")
	}
	if sr.URL != d.URL {
		t.Errorf("url should be untouched, got %s", sr.URL)
	}
}

func TestBuildPostPutsParamsInCanonicalJsonBody(t *testing.T) {
	//GIVEN a POST with structured parameters
	d := RequestDescriptor{
		Method: http.MethodPost,
		URL:    "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
		Params: []sigv4.QueryParam{
			{Key: "b", Value: "2"},
			{Key: "a", Value: "1"},
		},
		Region:  "us-east-1",
		Service: "execute-api",
	}

	//WHEN building the signed request
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN the body is the canonical JSON form regardless of insertion order
	expectedBody := `{"a":"1","b":"2"}`
	if string(sr.Body) != expectedBody {
		t.Errorf("expected body %s got %s", expectedBody, string(sr.Body))
	}

	//AND the payload hash covers exactly those bytes while the query is empty
	lines := canonicalRequestLines(t, sr)
	if lines[2] != "" {
		t.Errorf("expected empty canonical query for POST, got %q", lines[2])
	}
	if lines[len(lines)-1] != sigv4.Sha256Hex([]byte(expectedBody)) {
		t.Errorf("payload hash does not cover the transmitted body")
	}
	if sr.Headers["Content-Type"] != jsonContentType {
		t.Errorf("expected json content type, got %q", sr.Headers["Content-Type"])
	}
}

func TestBuildGetSortsParamsIntoQuery(t *testing.T) {
	//GIVEN a GET with structured parameters inserted out of order
	d := RequestDescriptor{
		Method: http.MethodGet,
		URL:    "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
		Params: []sigv4.QueryParam{
			{Key: "z", Value: "1"},
			{Key: "a", Value: "2"},
		},
		Region:  "us-east-1",
		Service: "execute-api",
	}

	//WHEN building the signed request
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN the query is sorted by whole token and what we send matches what
	//we signed
	lines := canonicalRequestLines(t, sr)
	if lines[2] != "a=2&z=1" {
		t.Errorf("expected sorted canonical query, got %q", lines[2])
	}
	expectedURL := d.URL + "?a=2&z=1"
	if sr.URL != expectedURL {
		t.Errorf("expected url %s got %s", expectedURL, sr.URL)
	}
}

func TestBuildKeepsSignedQueryOnNonGet(t *testing.T) {
	//GIVEN a POST whose url carries a query string
	d := RequestDescriptor{
		Method:  http.MethodPost,
		URL:     "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items?b=2",
		Region:  "us-east-1",
		Service: "execute-api",
	}

	//WHEN building the signed request
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN the query is part of the signature
	lines := canonicalRequestLines(t, sr)
	if lines[2] != "b=2" {
		t.Errorf("expected canonical query %q, got %q", "b=2", lines[2])
	}

	//AND what we dispatch carries that same query, a signed query must never
	//be stripped from the wire
	if sr.URL != d.URL {
		t.Errorf("expected url %s got %s", d.URL, sr.URL)
	}
}

func TestBuildEmitsAuthenticationHeaders(t *testing.T) {
	//GIVEN any signable descriptor
	d := RequestDescriptor{
		Method:  http.MethodGet,
		URL:     "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
		Region:  "us-east-1",
		Service: "execute-api",
	}

	//WHEN building the signed request
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN the authentication material is present
	auth := sr.Headers["Authorization"]
	if !strings.HasPrefix(auth, constants.SignAlgorithm+" Credential=AKIDEXAMPLE/20230101/us-east-1/execute-api/aws4_request, ") {
		t.Errorf("unexpected Authorization header %q", auth)
	}
	if sr.Headers[constants.AmzSecurityTokenKey] != testBuildCreds.SessionToken {
		t.Errorf("session token must be carried verbatim")
	}
	if sr.Headers["Host"] != "abc123.execute-api.us-east-1.amazonaws.com" {
		t.Errorf("unexpected Host header %q", sr.Headers["Host"])
	}
	//AND a GET carries no content type
	if _, ok := sr.Headers["Content-Type"]; ok {
		t.Errorf("GET must not carry a content type header")
	}
}

func TestBuildUsesOneTimestampEverywhere(t *testing.T) {
	//GIVEN a fixed signing time
	d := RequestDescriptor{
		Method:  http.MethodGet,
		URL:     "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
		Region:  "us-east-1",
		Service: "execute-api",
	}

	//WHEN building the signed request
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN header, string to sign and credential scope all carry that time
	if sr.Headers[constants.AmzDateKey] != "20230101T120000Z" {
		t.Errorf("unexpected X-Amz-Date %q", sr.Headers[constants.AmzDateKey])
	}
	stsLines := strings.Split(sr.StringToSign, "\n")
	if len(stsLines) != 4 {
		t.Fatalf("string to sign must have 4 lines, got %d", len(stsLines))
	}
	if stsLines[1] != sr.Headers[constants.AmzDateKey] {
		t.Errorf("string to sign timestamp %q differs from header %q", stsLines[1], sr.Headers[constants.AmzDateKey])
	}
	if stsLines[2] != "20230101/us-east-1/execute-api/aws4_request" {
		t.Errorf("unexpected credential scope %q", stsLines[2])
	}
}

func TestBuildRefusesInvalidDescriptors(t *testing.T) {
	var testCases = []struct {
		description string
		descriptor  RequestDescriptor
		expectedErr error
	}{
		{
			"unsupported method",
			RequestDescriptor{Method: "TRACE", URL: "https://h/p", Region: "r", Service: "s"},
			ErrUnsupportedMethod,
		},
		{
			"missing url",
			RequestDescriptor{Method: http.MethodGet, Region: "r", Service: "s"},
			ErrNoURL,
		},
		{
			"missing scope",
			RequestDescriptor{Method: http.MethodGet, URL: "https://h/p"},
			ErrNoScope,
		},
		{
			"params and raw query together",
			RequestDescriptor{
				Method: http.MethodGet, URL: "https://h/p", Region: "r", Service: "s",
				Params: []sigv4.QueryParam{{Key: "a", Value: "1"}}, RawQuery: "b=2",
			},
			ErrAmbiguousParams,
		},
		{
			"params and url query together",
			RequestDescriptor{
				Method: http.MethodGet, URL: "https://h/p?b=2", Region: "r", Service: "s",
				Params: []sigv4.QueryParam{{Key: "a", Value: "1"}},
			},
			ErrAmbiguousParams,
		},
	}

	for _, tc := range testCases {
		//WHEN building an invalid descriptor
		_, err := BuildAt(testBuildCreds, tc.descriptor, testBuildTime)

		//THEN we fail fast before any byte would leave the process
		if !errors.Is(err, tc.expectedErr) {
			t.Errorf("%s: expected %v got %v", tc.description, tc.expectedErr, err)
		}
	}
}

func TestSignedRequestConvertsToHttpRequest(t *testing.T) {
	//GIVEN a signed POST
	d := RequestDescriptor{
		Method:  http.MethodPost,
		URL:     "https://abc123.execute-api.us-east-1.amazonaws.com/prod/items",
		Params:  []sigv4.QueryParam{{Key: "a", Value: "1"}},
		Region:  "us-east-1",
		Service: "execute-api",
	}
	sr, err := BuildAt(testBuildCreds, d, testBuildTime)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//WHEN converting for dispatch
	r, err := sr.ToHTTPRequest(context.Background())
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}

	//THEN host, headers and body survive the conversion
	if r.Host != "abc123.execute-api.us-east-1.amazonaws.com" {
		t.Errorf("unexpected host %q", r.Host)
	}
	if r.Header.Get("Authorization") != sr.Headers["Authorization"] {
		t.Errorf("Authorization header got lost")
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	if string(body) != string(sr.Body) {
		t.Errorf("body got mangled: %q", string(body))
	}
}
