package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fedsign/fedsign/request"
	"github.com/fedsign/fedsign/transport"
)

var testDispatchCreds = aws.Credentials{
	AccessKeyID:     "AKIDEXAMPLE",
	SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
}

func signedTestRequest(t testing.TB, method, url string) *request.SignedRequest {
	t.Helper()
	sr, err := request.Build(testDispatchCreds, request.RequestDescriptor{
		Method:  method,
		URL:     url,
		Region:  "eu-west-1",
		Service: "execute-api",
	})
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	return sr
}

func TestDispatchDeliversSignedRequest(t *testing.T) {
	//GIVEN a test server that echoes what it saw
	var seenMethod, seenAuth, seenDate string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenMethod = r.Method
		seenAuth = r.Header.Get("Authorization")
		seenDate = r.Header.Get("X-Amz-Date")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("all good")); err != nil {
			t.Error(err)
		}
	}))
	defer ts.Close()

	//GIVEN a signed request aimed at that server
	sr := signedTestRequest(t, http.MethodGet, ts.URL+"/prod/items")

	//WHEN dispatching it
	result, err := transport.NewHTTPDispatcher(nil, nil).Dispatch(context.Background(), sr)

	//THEN the server saw the signing material and we got the response back
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 got %d", result.StatusCode)
	}
	if string(result.Body) != "all good" {
		t.Errorf("unexpected body %s", string(result.Body))
	}
	if seenMethod != http.MethodGet {
		t.Errorf("unexpected method %s", seenMethod)
	}
	if seenAuth == "" {
		t.Error("expected the Authorization header to arrive at the server")
	}
	if seenDate == "" {
		t.Error("expected the X-Amz-Date header to arrive at the server")
	}
}

func TestDispatchReportsRejection(t *testing.T) {
	//GIVEN a server that refuses everything
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()
	sr := signedTestRequest(t, http.MethodGet, ts.URL+"/prod/items")

	//WHEN dispatching a signed request
	result, err := transport.NewHTTPDispatcher(nil, nil).Dispatch(context.Background(), sr)

	//THEN the result is flagged as a rejection rather than an error
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	if !result.Rejected() {
		t.Errorf("expected a rejection for status %d", result.StatusCode)
	}
}

func TestDispatchCountsOutcomesPerCode(t *testing.T) {
	//GIVEN a dispatcher with its own registry
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()
	reg := prometheus.NewRegistry()
	d := transport.NewHTTPDispatcher(nil, reg)

	//WHEN one dispatch succeeds and one cannot connect
	if _, err := d.Dispatch(context.Background(), signedTestRequest(t, http.MethodGet, ts.URL+"/prod/items")); err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	if _, err := d.Dispatch(context.Background(), signedTestRequest(t, http.MethodGet, "http://localhost:1/prod/items")); err == nil {
		t.Fatal("expected an error when nothing listens")
	}

	//THEN both outcomes show up under their own code label
	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	seenCodes := map[string]float64{}
	for _, mf := range metricFamilies {
		if mf.GetName() != "outbound_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "code" {
					seenCodes[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}
	if seenCodes["200"] != 1 {
		t.Errorf("expected one counted success, got %v", seenCodes)
	}
	if seenCodes["error"] != 1 {
		t.Errorf("expected one counted failure, got %v", seenCodes)
	}
}
