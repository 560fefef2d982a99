package sigv4

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

var testPresignVerifyTime = time.Date(2024, 10, 9, 8, 25, 16, 0, time.UTC)

func presignedTestRequest(t testing.TB, expirySeconds int) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://s3.test.com/my-bucket/my-object", nil)
	if err != nil {
		t.Fatalf("Could not create test request: %s", err)
	}
	signedURI, _, err := PresignURL(context.Background(), req, expirySeconds, testPresignVerifyTime, testVerifyCreds, "eu-west-1", "s3")
	if err != nil {
		t.Fatalf("Could not presign test request: %s", err)
	}
	presigned, err := http.NewRequest(http.MethodGet, signedURI, nil)
	if err != nil {
		t.Fatalf("Could not create presigned test request: %s", err)
	}
	return presigned
}

func TestVerifyPresignedRequestAcceptsOwnPresignedUrl(t *testing.T) {
	//GIVEN a url presigned with known credentials
	r := presignedTestRequest(t, 300)

	//WHEN verifying it
	isValid, creds, expires, err := VerifyPresignedRequest(context.Background(), r, testSecretDeriver(t))

	//THEN it is accepted with the original credential details
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	if !isValid {
		t.Errorf("expected the presigned url to verify")
	}
	if creds.AccessKeyID != testVerifyCreds.AccessKeyID {
		t.Errorf("unexpected access key id %s", creds.AccessKeyID)
	}
	if creds.SessionToken != testVerifyCreds.SessionToken {
		t.Errorf("session token should be recovered from the url")
	}
	expectedExpiry := testPresignVerifyTime.Add(300 * time.Second)
	if !expires.Equal(expectedExpiry) {
		t.Errorf("expected expiry %s got %s", expectedExpiry, expires)
	}
}

func TestVerifyPresignedRequestRejectsTamperedPath(t *testing.T) {
	//GIVEN a presigned url where the object path was altered afterwards
	r := presignedTestRequest(t, 300)
	r.URL.Path = "/my-bucket/another-object"

	//WHEN verifying it
	isValid, _, _, err := VerifyPresignedRequest(context.Background(), r, testSecretDeriver(t))

	//THEN it is refused
	if err != nil {
		t.Fatalf("did not expect error: %s", err)
	}
	if isValid {
		t.Errorf("expected tampered presigned url to be refused")
	}
}

func TestVerifyPresignedRequestErrorsOnMissingSignature(t *testing.T) {
	//GIVEN a presigned url stripped of its signature
	r := presignedTestRequest(t, 300)
	query := r.URL.Query()
	query.Del("X-Amz-Signature")
	r.URL.RawQuery = query.Encode()

	//WHEN verifying it
	_, _, _, err := VerifyPresignedRequest(context.Background(), r, testSecretDeriver(t))

	//THEN we get an explanatory error
	if err == nil {
		t.Fatalf("expected an error for a url without signature")
	}
	if !strings.Contains(err.Error(), "X-Amz-Signature") {
		t.Errorf("error should name the missing parameter, got %s", err)
	}
}
