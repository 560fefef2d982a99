package sigv4

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/fedsign/fedsign/constants"
	"github.com/fedsign/fedsign/requestutils"
	"github.com/fedsign/fedsign/usererror"
)

// SecretDeriver resolves the secret access key that belongs to an access key id.
type SecretDeriver func(accessKeyId string) (secretAccessKey string, err error)

// VerifyRequest checks the SigV4 signature of an inbound request the way AWS
// does: it rebuilds a clone that carries exactly the headers listed in
// SignedHeaders, re-signs that clone for the timestamp declared in X-Amz-Date
// and compares signatures. The heavy lifting of reconstruction is delegated
// to the aws-sdk-go-v2 signer as that is the behavior remote endpoints hold
// our requests against.
func VerifyRequest(ctx context.Context, r *http.Request, deriver SecretDeriver) (isValid bool, creds aws.Credentials, err error) {
	accessKeyId, err := requestutils.GetSignatureCredentialPartFromRequest(r, requestutils.CredentialPartAccessKeyId)
	if err != nil {
		return false, creds, err
	}
	region, err := requestutils.GetSignatureCredentialPartFromRequest(r, requestutils.CredentialPartRegionName)
	if err != nil {
		return false, creds, err
	}
	service, err := requestutils.GetSignatureCredentialPartFromRequest(r, requestutils.CredentialPartServiceName)
	if err != nil {
		return false, creds, err
	}

	signingTime, err := XAmzDateToTime(r.Header.Get(constants.AmzDateKey))
	if err != nil {
		return false, creds, usererror.New(
			fmt.Errorf("could not interpret %s value %q: %w", constants.AmzDateKey, r.Header.Get(constants.AmzDateKey), err),
			"Invalid X-Amz-Date header",
		)
	}

	secretAccessKey, err := deriver(accessKeyId)
	if err != nil {
		return false, creds, err
	}
	creds = aws.Credentials{
		AccessKeyID:     accessKeyId,
		SecretAccessKey: secretAccessKey,
		SessionToken:    r.Header.Get(constants.AmzSecurityTokenKey),
	}

	originalSignature, err := getSignatureFromAuthorization(r.Header.Get("Authorization"))
	if err != nil {
		return false, creds, err
	}

	payloadHash, err := payloadHashForInboundRequest(r)
	if err != nil {
		return false, creds, err
	}

	signedHeaders, err := getSignedHeadersFromRequest(r)
	if err != nil {
		return false, creds, err
	}
	clone := cloneWithSignedHeadersOnly(ctx, r, signedHeaders)

	//The signature only covers the session token when the client listed it as
	//a signed header. Requests that send the token unsigned are legitimate,
	//re-signing them with the token would wrongly reject them.
	signingCreds := creds
	if !slices.Contains(signedHeaders, "X-Amz-Security-Token") {
		signingCreds.SessionToken = ""
	}

	signer := v4.NewSigner()
	if err := signer.SignHTTP(ctx, signingCreds, clone, payloadHash, service, region, signingTime); err != nil {
		return false, creds, fmt.Errorf("encountered error trying to sign a similar request: %w", err)
	}

	calculatedSignature, err := getSignatureFromAuthorization(clone.Header.Get("Authorization"))
	if err != nil {
		return false, creds, err
	}
	return originalSignature == calculatedSignature, creds, nil
}

const signaturePrefix = "Signature="

func getSignatureFromAuthorization(authorizationHeader string) (string, error) {
	if authorizationHeader == "" {
		return "", errors.New("got empty authorization header")
	}
	idx := strings.LastIndex(authorizationHeader, signaturePrefix)
	if idx < 0 {
		return "", usererror.New(
			fmt.Errorf("no signature in authorization header: %s", authorizationHeader),
			"Authorization header has invalid structure",
		)
	}
	return authorizationHeader[idx+len(signaturePrefix):], nil
}

const signedHeadersPrefix = "SignedHeaders="

// Inspect a http.Request and return a slice with the signed header names in
// their canonical form as announced in the Authorization header.
func getSignedHeadersFromRequest(r *http.Request) (signedHeaders []string, err error) {
	ah := r.Header.Get("Authorization")
	if ah == "" {
		return nil, errors.New("no authorization header present")
	}
	authorizationParts := strings.Split(ah, ",")
	if len(authorizationParts) != 3 {
		return nil, usererror.New(
			fmt.Errorf("signature not as expected; got: %s", ah),
			"Authorization header has invalid structure",
		)
	}
	signedHeadersPart := strings.TrimLeft(authorizationParts[1], " ")
	if !strings.HasPrefix(signedHeadersPart, signedHeadersPrefix) {
		return nil, usererror.New(
			fmt.Errorf("signature did not have expected signed headers prefix; got: %s", ah),
			"Authorization header has invalid structure",
		)
	}
	signedHeadersPart = signedHeadersPart[len(signedHeadersPrefix):]
	for _, signedHeader := range strings.Split(signedHeadersPart, ";") {
		signedHeaders = append(signedHeaders, textproto.CanonicalMIMEHeaderKey(signedHeader))
	}
	return signedHeaders, nil
}

// cloneWithSignedHeadersOnly clones the request and drops every header that
// was not part of the signature. Leftover unsigned headers would make the
// re-signed request disagree with the original for no good reason.
func cloneWithSignedHeadersOnly(ctx context.Context, r *http.Request, signedHeaders []string) *http.Request {
	clone := r.Clone(ctx)
	clone.Body = nil
	if clone.Host != "" && clone.Header.Get("Host") == "" {
		clone.Header.Add("Host", clone.Host)
	}
	for headerName := range clone.Header {
		if slices.Contains(signedHeaders, headerName) || headerName == "Host" {
			continue
		}
		clone.Header.Del(headerName)
	}
	if !slices.Contains(signedHeaders, "Content-Length") {
		clone.ContentLength = 0
	}
	return clone
}

// payloadHashForInboundRequest prefers the hash the client declared via
// X-Amz-Content-Sha256 and otherwise hashes the body bytes, restoring the
// body for downstream handlers.
func payloadHashForInboundRequest(r *http.Request) (string, error) {
	if declared := r.Header.Get(constants.AmzContentSHAKey); declared != "" {
		return declared, nil
	}
	if r.Body == nil || r.Method == http.MethodGet {
		return constants.EmptyStringSHA256, nil
	}
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("could not read request body for hashing: %w", err)
	}
	if err = r.Body.Close(); err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	return Sha256Hex(bodyBytes), nil
}
